package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/domain"
	"github.com/Neeraj-1996/mlmbackend/internal/store"
	"github.com/Neeraj-1996/mlmbackend/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogStore_ProductLifecycle(t *testing.T) {
	catalog := store.NewCatalogStore(storetest.Open(t))
	ctx := context.Background()

	gold := &domain.Product{ProductName: "Gold", Level: "3", RatioBetween: "1.5-2", Price: 300, ProductImg: "http://img/gold.png"}
	silver := &domain.Product{ProductName: "Silver", Level: "2", RatioBetween: "1.2-1.5", Price: 100, ProductImg: "http://img/silver.png"}
	require.NoError(t, catalog.Create(ctx, gold))
	require.NoError(t, catalog.Create(ctx, silver))

	products, err := catalog.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Silver", products[0].ProductName)

	var loaded domain.Product
	require.NoError(t, catalog.Find(ctx, &loaded, gold.ID))
	loaded.Price = 350
	require.NoError(t, catalog.Save(ctx, &loaded))
	require.NoError(t, catalog.Find(ctx, &loaded, gold.ID))
	assert.InDelta(t, 350, loaded.Price, 0.001)

	require.NoError(t, catalog.Delete(ctx, &domain.Product{}, gold.ID))
	assert.ErrorIs(t, catalog.Delete(ctx, &domain.Product{}, gold.ID), store.ErrNotFound)
	assert.ErrorIs(t, catalog.Find(ctx, &loaded, gold.ID), store.ErrNotFound)

	count, err := catalog.Count(ctx, &domain.Product{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCatalogStore_EventsAndSliders(t *testing.T) {
	catalog := store.NewCatalogStore(storetest.Open(t))
	ctx := context.Background()
	now := time.Now()

	later := &domain.Event{Title: "Later", StartDate: now.Add(48 * time.Hour), EndDate: now.Add(72 * time.Hour)}
	sooner := &domain.Event{Title: "Sooner", StartDate: now, EndDate: now.Add(time.Hour)}
	require.NoError(t, catalog.Create(ctx, later))
	require.NoError(t, catalog.Create(ctx, sooner))

	events, err := catalog.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner", events[0].Title)

	require.NoError(t, catalog.Create(ctx, &domain.SliderImage{SliderImg: "http://img/1.png"}))
	require.NoError(t, catalog.Create(ctx, &domain.SliderImage{SliderImg: "http://img/2.png"}))
	sliders, err := catalog.Sliders(ctx)
	require.NoError(t, err)
	require.Len(t, sliders, 2)
	assert.Equal(t, "http://img/2.png", sliders[0].SliderImg)
}
