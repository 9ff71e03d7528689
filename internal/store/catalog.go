package store

import (
	"context"

	"github.com/Neeraj-1996/mlmbackend/internal/domain"

	"gorm.io/gorm"
)

// CatalogStore reads and writes products, events and slider images
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore creates a CatalogStore
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Create inserts any catalog entity
func (s *CatalogStore) Create(ctx context.Context, entity any) error {
	return translate(s.db.WithContext(ctx).Create(entity).Error)
}

// Save writes every column of an existing entity
func (s *CatalogStore) Save(ctx context.Context, entity any) error {
	return translate(s.db.WithContext(ctx).Save(entity).Error)
}

// Find loads an entity by primary key into dest
func (s *CatalogStore) Find(ctx context.Context, dest any, id uint) error {
	return translate(s.db.WithContext(ctx).First(dest, id).Error)
}

// Delete removes the entity of model's type with id
func (s *CatalogStore) Delete(ctx context.Context, model any, id uint) error {
	res := s.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Products lists all products, cheapest first
func (s *CatalogStore) Products(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	err := s.db.WithContext(ctx).Order("price asc, id asc").Find(&products).Error
	return products, err
}

// Events lists all events by start date
func (s *CatalogStore) Events(ctx context.Context) ([]domain.Event, error) {
	events := []domain.Event{}
	err := s.db.WithContext(ctx).Order("start_date asc, id asc").Find(&events).Error
	return events, err
}

// Sliders lists all slider images, newest first
func (s *CatalogStore) Sliders(ctx context.Context) ([]domain.SliderImage, error) {
	sliders := []domain.SliderImage{}
	err := s.db.WithContext(ctx).Order("id desc").Find(&sliders).Error
	return sliders, err
}

// Count returns the number of rows of model's type
func (s *CatalogStore) Count(ctx context.Context, model any) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(model).Count(&total).Error
	return total, err
}
