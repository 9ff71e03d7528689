package service

import (
	"context"
	"testing"

	"github.com/Neeraj-1996/mlmbackend/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProducts(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.admin.CreateProduct(ctx, ProductInput{ProductName: "Gold", Level: "1", RatioBetween: "1:2", Price: 10}, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.admin.CreateProduct(ctx, ProductInput{ProductName: "Gold", RatioBetween: "1:2", Price: 10}, image("g.png"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.admin.CreateProduct(ctx, ProductInput{ProductName: "Gold", Level: "1", RatioBetween: "1:2", Price: -1}, image("g.png"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	gold, err := f.admin.CreateProduct(ctx, ProductInput{ProductName: "Gold", Level: "2", RatioBetween: "1:2", Price: 50}, image("g.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/g.png", gold.ProductImg)
	_, err = f.admin.CreateProduct(ctx, ProductInput{ProductName: "Silver", Level: "1", RatioBetween: "1:1", Price: 20}, image("s.png"))
	require.NoError(t, err)

	products, err := f.admin.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Silver", products[0].ProductName, "cheapest first")

	price := 75.0
	updated, err := f.admin.UpdateProduct(ctx, gold.ID, ProductPatch{Price: &price, ProductName: strPtr("Gold+")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Gold+", updated.ProductName)
	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, "2", updated.Level)
	assert.Equal(t, "https://cdn.example/g.png", updated.ProductImg)

	_, err = f.admin.UpdateProduct(ctx, gold.ID, ProductPatch{Level: strPtr(" ")}, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.admin.UpdateProduct(ctx, 999, ProductPatch{}, nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, f.admin.DeleteProduct(ctx, gold.ID))
	err = f.admin.DeleteProduct(ctx, gold.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestEvents(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	in := EventInput{Title: "Launch", StartDate: "2026-03-01", EndDate: "2026-03-05", Description: "Kickoff"}

	bad := in
	bad.EndDate = "2026-02-01"
	_, err := f.admin.CreateEvent(ctx, bad, image("e.png"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	bad = in
	bad.StartDate = "next week"
	_, err = f.admin.CreateEvent(ctx, bad, image("e.png"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	event, err := f.admin.CreateEvent(ctx, in, image("e.png"))
	require.NoError(t, err)
	assert.Equal(t, 2026, event.StartDate.Year())

	updated, err := f.admin.UpdateEvent(ctx, event.ID, EventPatch{EndDate: strPtr("2026-03-10T12:00:00Z")}, image("e2.png"))
	require.NoError(t, err)
	assert.Equal(t, 10, updated.EndDate.Day())
	assert.Equal(t, "https://cdn.example/e2.png", updated.EventImg)

	_, err = f.admin.UpdateEvent(ctx, event.ID, EventPatch{StartDate: strPtr("2026-04-01")}, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	events, err := f.admin.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	require.NoError(t, f.admin.DeleteEvent(ctx, event.ID))
	events, err = f.admin.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSliders(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.uploader.Err = errUploadDown
	_, err := f.admin.CreateSlider(ctx, image("s.png"))
	assert.True(t, apperror.Is(err, apperror.KindUpload))

	f.uploader.Err = nil
	slider, err := f.admin.CreateSlider(ctx, image("s.png"))
	require.NoError(t, err)

	sliders, err := f.admin.Sliders(ctx)
	require.NoError(t, err)
	require.Len(t, sliders, 1)
	assert.Equal(t, "https://cdn.example/s.png", sliders[0].SliderImg)

	require.NoError(t, f.admin.DeleteSlider(ctx, slider.ID))
	err = f.admin.DeleteSlider(ctx, slider.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUserRecordsAndHome(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	for _, name := range []string{"amy", "ben", "cat"} {
		f.register(t, name)
	}
	amy, err := f.users.FindByIdentifier(ctx, "amy")
	require.NoError(t, err)
	f.fund(t, amy.ID, 10)
	_, err = f.ledger.Submit(ctx, amy.ID, SubmitInput{Address: "0x1", Amount: 5, FinalAmount: 5})
	require.NoError(t, err)

	page, err := f.admin.UserRecords(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "cat", page.Users[0].Username, "newest first")

	page, err = f.admin.UserRecords(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)

	home, err := f.admin.Home(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, home.Users)
	assert.EqualValues(t, 1, home.PendingWithdrawals)
	assert.Zero(t, home.Products)
}
