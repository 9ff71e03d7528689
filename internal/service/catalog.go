package service

import (
	"context"
	"strings"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/apperror"
	"github.com/Neeraj-1996/mlmbackend/internal/domain"
	"github.com/Neeraj-1996/mlmbackend/internal/store"

	"github.com/sirupsen/logrus"
)

// CatalogRepository is the catalog persistence the admin needs
type CatalogRepository interface {
	Create(ctx context.Context, entity any) error
	Save(ctx context.Context, entity any) error
	Find(ctx context.Context, dest any, id uint) error
	Delete(ctx context.Context, model any, id uint) error
	Products(ctx context.Context) ([]domain.Product, error)
	Events(ctx context.Context) ([]domain.Event, error)
	Sliders(ctx context.Context) ([]domain.SliderImage, error)
	Count(ctx context.Context, model any) (int64, error)
}

// UserLister pages through users
type UserLister interface {
	List(ctx context.Context, page store.Page) ([]domain.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

// PendingCounter counts withdrawal requests by state
type PendingCounter interface {
	CountByStatus(ctx context.Context, status domain.WithdrawalStatus) (int64, error)
}

// ProductInput is a new product
type ProductInput struct {
	ProductName  string
	Level        string
	RatioBetween string
	Price        float64
}

// ProductPatch changes only the non-nil fields
type ProductPatch struct {
	ProductName  *string
	Level        *string
	RatioBetween *string
	Price        *float64
}

// EventInput is a new event. Dates are 2006-01-02 or RFC3339.
type EventInput struct {
	Title       string
	StartDate   string
	EndDate     string
	Description string
}

// EventPatch changes only the non-nil fields
type EventPatch struct {
	Title       *string
	StartDate   *string
	EndDate     *string
	Description *string
}

// UserPage is one page of the admin user listing
type UserPage struct {
	Users      []domain.User `json:"users"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// CatalogService manages products, events, sliders and the admin overview
type CatalogService struct {
	catalog     CatalogRepository
	users       UserLister
	withdrawals PendingCounter
	images      ImageUploader
}

// NewCatalogService creates a CatalogService
func NewCatalogService(catalog CatalogRepository, users UserLister, withdrawals PendingCounter, images ImageUploader) *CatalogService {
	return &CatalogService{catalog: catalog, users: users, withdrawals: withdrawals, images: images}
}

// CreateProduct validates, uploads the image and stores a product
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, img *ImageFile) (*domain.Product, error) {
	err := required(
		[2]string{"productName", in.ProductName},
		[2]string{"level", in.Level},
		[2]string{"ratioBetween", in.RatioBetween},
	)
	if err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, apperror.Validation("price cannot be negative")
	}
	url, err := uploadImage(ctx, s.images, img, "product image")
	if err != nil {
		return nil, err
	}
	product := &domain.Product{
		ProductName:  strings.TrimSpace(in.ProductName),
		Level:        strings.TrimSpace(in.Level),
		RatioBetween: strings.TrimSpace(in.RatioBetween),
		Price:        in.Price,
		ProductImg:   url,
	}
	if err := s.catalog.Create(ctx, product); err != nil {
		return nil, storeError(err, "Product not found")
	}
	logrus.WithFields(logrus.Fields{"product_id": product.ID, "name": product.ProductName}).Info("Product created")
	return product, nil
}

// UpdateProduct applies patch and, when img is given, replaces the image
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch, img *ImageFile) (*domain.Product, error) {
	var product domain.Product
	if err := s.catalog.Find(ctx, &product, id); err != nil {
		return nil, storeError(err, "Product not found")
	}
	if err := applyText(&product.ProductName, patch.ProductName, "productName"); err != nil {
		return nil, err
	}
	if err := applyText(&product.Level, patch.Level, "level"); err != nil {
		return nil, err
	}
	if err := applyText(&product.RatioBetween, patch.RatioBetween, "ratioBetween"); err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, apperror.Validation("price cannot be negative")
		}
		product.Price = *patch.Price
	}
	if img != nil {
		url, err := uploadImage(ctx, s.images, img, "product image")
		if err != nil {
			return nil, err
		}
		product.ProductImg = url
	}
	if err := s.catalog.Save(ctx, &product); err != nil {
		return nil, storeError(err, "Product not found")
	}
	logrus.WithField("product_id", id).Info("Product updated")
	return &product, nil
}

// DeleteProduct removes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return s.remove(ctx, &domain.Product{}, id, "Product")
}

// Products lists every product
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, apperror.Server("list products", err)
	}
	return products, nil
}

// CreateEvent validates, uploads the image and stores an event
func (s *CatalogService) CreateEvent(ctx context.Context, in EventInput, img *ImageFile) (*domain.Event, error) {
	err := required(
		[2]string{"title", in.Title},
		[2]string{"startDate", in.StartDate},
		[2]string{"endDate", in.EndDate},
		[2]string{"description", in.Description},
	)
	if err != nil {
		return nil, err
	}
	event := &domain.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	if event.StartDate, err = parseDate("startDate", in.StartDate); err != nil {
		return nil, err
	}
	if event.EndDate, err = parseDate("endDate", in.EndDate); err != nil {
		return nil, err
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, apperror.Validation("endDate cannot be before startDate")
	}
	if event.EventImg, err = uploadImage(ctx, s.images, img, "event image"); err != nil {
		return nil, err
	}
	if err := s.catalog.Create(ctx, event); err != nil {
		return nil, storeError(err, "Event not found")
	}
	logrus.WithFields(logrus.Fields{"event_id": event.ID, "title": event.Title}).Info("Event created")
	return event, nil
}

// UpdateEvent applies patch and, when img is given, replaces the image
func (s *CatalogService) UpdateEvent(ctx context.Context, id uint, patch EventPatch, img *ImageFile) (*domain.Event, error) {
	var event domain.Event
	if err := s.catalog.Find(ctx, &event, id); err != nil {
		return nil, storeError(err, "Event not found")
	}
	if err := applyText(&event.Title, patch.Title, "title"); err != nil {
		return nil, err
	}
	if err := applyText(&event.Description, patch.Description, "description"); err != nil {
		return nil, err
	}
	var err error
	if patch.StartDate != nil {
		if event.StartDate, err = parseDate("startDate", *patch.StartDate); err != nil {
			return nil, err
		}
	}
	if patch.EndDate != nil {
		if event.EndDate, err = parseDate("endDate", *patch.EndDate); err != nil {
			return nil, err
		}
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, apperror.Validation("endDate cannot be before startDate")
	}
	if img != nil {
		if event.EventImg, err = uploadImage(ctx, s.images, img, "event image"); err != nil {
			return nil, err
		}
	}
	if err := s.catalog.Save(ctx, &event); err != nil {
		return nil, storeError(err, "Event not found")
	}
	logrus.WithField("event_id", id).Info("Event updated")
	return &event, nil
}

// DeleteEvent removes an event
func (s *CatalogService) DeleteEvent(ctx context.Context, id uint) error {
	return s.remove(ctx, &domain.Event{}, id, "Event")
}

// Events lists every event
func (s *CatalogService) Events(ctx context.Context) ([]domain.Event, error) {
	events, err := s.catalog.Events(ctx)
	if err != nil {
		return nil, apperror.Server("list events", err)
	}
	return events, nil
}

// CreateSlider uploads and stores a slider image
func (s *CatalogService) CreateSlider(ctx context.Context, img *ImageFile) (*domain.SliderImage, error) {
	url, err := uploadImage(ctx, s.images, img, "slider image")
	if err != nil {
		return nil, err
	}
	slider := &domain.SliderImage{SliderImg: url}
	if err := s.catalog.Create(ctx, slider); err != nil {
		return nil, storeError(err, "Slider not found")
	}
	logrus.WithField("slider_id", slider.ID).Info("Slider image created")
	return slider, nil
}

// DeleteSlider removes a slider image
func (s *CatalogService) DeleteSlider(ctx context.Context, id uint) error {
	return s.remove(ctx, &domain.SliderImage{}, id, "Slider")
}

// Sliders lists every slider image
func (s *CatalogService) Sliders(ctx context.Context) ([]domain.SliderImage, error) {
	sliders, err := s.catalog.Sliders(ctx)
	if err != nil {
		return nil, apperror.Server("list sliders", err)
	}
	return sliders, nil
}

// UserRecords returns one page of users
func (s *CatalogService) UserRecords(ctx context.Context, page, pageSize int) (*UserPage, error) {
	p := store.NewPage(page, pageSize)
	users, total, err := s.users.List(ctx, p)
	if err != nil {
		return nil, apperror.Server("list users", err)
	}
	return &UserPage{
		Users:      users,
		Page:       p.Number,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}, nil
}

// Home returns the admin dashboard counters
func (s *CatalogService) Home(ctx context.Context) (*domain.Dashboard, error) {
	var d domain.Dashboard
	var err error
	if d.Users, err = s.users.Count(ctx); err != nil {
		return nil, apperror.Server("count users", err)
	}
	if d.Products, err = s.catalog.Count(ctx, &domain.Product{}); err != nil {
		return nil, apperror.Server("count products", err)
	}
	if d.Events, err = s.catalog.Count(ctx, &domain.Event{}); err != nil {
		return nil, apperror.Server("count events", err)
	}
	if d.Sliders, err = s.catalog.Count(ctx, &domain.SliderImage{}); err != nil {
		return nil, apperror.Server("count sliders", err)
	}
	if d.PendingWithdrawals, err = s.withdrawals.CountByStatus(ctx, domain.StatusPending); err != nil {
		return nil, apperror.Server("count withdrawals", err)
	}
	return &d, nil
}

func (s *CatalogService) remove(ctx context.Context, model any, id uint, what string) error {
	if err := s.catalog.Delete(ctx, model, id); err != nil {
		return storeError(err, what+" not found")
	}
	logrus.WithFields(logrus.Fields{"id": id, "kind": what}).Info("Catalog entry deleted")
	return nil
}

func applyText(dst *string, v *string, field string) error {
	if v == nil {
		return nil
	}
	if strings.TrimSpace(*v) == "" {
		return apperror.Validationf("%s cannot be empty", field)
	}
	*dst = strings.TrimSpace(*v)
	return nil
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.Validationf("%s must be a date (YYYY-MM-DD)", field)
}
