package api

import (
	"context"  // Loader context
	"net/http" // HTTP status codes
	"strconv"  // Pagination parsing

	"github.com/Neeraj-1996/mlmbackend/internal/domain"   // Importing domain models
	"github.com/Neeraj-1996/mlmbackend/internal/response" // Response envelope
	"github.com/Neeraj-1996/mlmbackend/internal/service"  // Catalog rules
	"github.com/Neeraj-1996/mlmbackend/internal/utils"    // Cache

	"github.com/gin-gonic/gin" // Gin web framework
)

// HomeHandler returns the dashboard counters
func HomeHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		home, err := cached(c, cache, keyHome, func(ctx context.Context) (*domain.Dashboard, error) {
			return catalog.Home(ctx)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, home, "Dashboard fetched successfully")
	}
}

// UserRecordsHandler returns one page of users
func UserRecordsHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Invalid or out of range values fall back to the store defaults
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		key := keyUsers + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		records, err := cached(c, cache, key, func(ctx context.Context) (*service.UserPage, error) {
			return catalog.UserRecords(ctx, page, pageSize)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, records, "User records fetched successfully")
	}
}

// AddProductHandler creates a product from a multipart form
func AddProductHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, closeFile := formImage(c, "productImg")
		defer closeFile()
		price, err := parsePrice(c.DefaultPostForm("price", "0"))
		if err != nil {
			respondError(c, err)
			return
		}
		product, err := catalog.CreateProduct(c.Request.Context(), service.ProductInput{
			ProductName:  c.PostForm("productName"),
			Level:        c.PostForm("level"),
			RatioBetween: c.PostForm("ratioBetween"),
			Price:        price,
		}, img)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyCatalog+"products", keyHome)
		response.OK(c, http.StatusCreated, product, "Product added successfully")
	}
}

// ProductsHandler lists every product
func ProductsHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := cached(c, cache, keyCatalog+"products", catalog.Products)
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, products, "Products fetched successfully")
	}
}

// UpdateProductHandler changes the fields present in the form
func UpdateProductHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		img, closeFile := formImage(c, "productImg")
		defer closeFile()
		patch := service.ProductPatch{
			ProductName:  optionalForm(c, "productName"),
			Level:        optionalForm(c, "level"),
			RatioBetween: optionalForm(c, "ratioBetween"),
		}
		if raw := optionalForm(c, "price"); raw != nil {
			price, err := parsePrice(*raw)
			if err != nil {
				respondError(c, err)
				return
			}
			patch.Price = &price
		}
		product, err := catalog.UpdateProduct(c.Request.Context(), id, patch, img)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyCatalog+"products")
		response.OK(c, http.StatusOK, product, "Product updated successfully")
	}
}

// DeleteProductHandler removes a product
func DeleteProductHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return deleteHandler(catalog.DeleteProduct, cache, "products", "Product deleted successfully")
}

// AddEventHandler creates an event from a multipart form
func AddEventHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, closeFile := formImage(c, "eventImg")
		defer closeFile()
		event, err := catalog.CreateEvent(c.Request.Context(), service.EventInput{
			Title:       c.PostForm("title"),
			StartDate:   c.PostForm("startDate"),
			EndDate:     c.PostForm("endDate"),
			Description: c.PostForm("description"),
		}, img)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyCatalog+"events", keyHome)
		response.OK(c, http.StatusCreated, event, "Event added successfully")
	}
}

// EventsHandler lists every event
func EventsHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := cached(c, cache, keyCatalog+"events", catalog.Events)
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, events, "Events fetched successfully")
	}
}

// UpdateEventHandler changes the fields present in the form
func UpdateEventHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		img, closeFile := formImage(c, "eventImg")
		defer closeFile()
		event, err := catalog.UpdateEvent(c.Request.Context(), id, service.EventPatch{
			Title:       optionalForm(c, "title"),
			StartDate:   optionalForm(c, "startDate"),
			EndDate:     optionalForm(c, "endDate"),
			Description: optionalForm(c, "description"),
		}, img)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyCatalog+"events")
		response.OK(c, http.StatusOK, event, "Event updated successfully")
	}
}

// DeleteEventHandler removes an event
func DeleteEventHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return deleteHandler(catalog.DeleteEvent, cache, "events", "Event deleted successfully")
}

// AddSliderHandler uploads a slider image
func AddSliderHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, closeFile := formImage(c, "sliderImg")
		defer closeFile()
		slider, err := catalog.CreateSlider(c.Request.Context(), img)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyCatalog+"sliders", keyHome)
		response.OK(c, http.StatusCreated, slider, "Slider image added successfully")
	}
}

// SlidersHandler lists every slider image
func SlidersHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		sliders, err := cached(c, cache, keyCatalog+"sliders", catalog.Sliders)
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, sliders, "Slider images fetched successfully")
	}
}

// DeleteSliderHandler removes a slider image
func DeleteSliderHandler(catalog *service.CatalogService, cache *utils.Cache) gin.HandlerFunc {
	return deleteHandler(catalog.DeleteSlider, cache, "sliders", "Slider image deleted successfully")
}

func deleteHandler(remove func(ctx context.Context, id uint) error, cache *utils.Cache, list, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := remove(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyCatalog+list, keyHome)
		response.OK(c, http.StatusOK, gin.H{"id": id}, message)
	}
}
