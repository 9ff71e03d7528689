package api

import (
	"context"  // Cache operations
	"net/http" // HTTP status codes and cookies
	"strconv"  // Path parameter parsing
	"time"     // Cookie lifetimes

	"github.com/Neeraj-1996/mlmbackend/internal/apperror"   // Error kinds
	"github.com/Neeraj-1996/mlmbackend/internal/middleware" // Auth context helpers
	"github.com/Neeraj-1996/mlmbackend/internal/response"   // Response envelope
	"github.com/Neeraj-1996/mlmbackend/internal/service"    // Business rules
	"github.com/Neeraj-1996/mlmbackend/internal/utils"      // Cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Cache key prefixes, invalidated on writes
const (
	keyUsers       = "admin:users:"
	keyWithdrawals = "admin:withdrawals:"
	keyHome        = "admin:home"
	keyCatalog     = "catalog:"
)

func respondError(c *gin.Context, err error) {
	response.Error(c, err)
}

// bindJSON decodes the body into dst, answering 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperror.Validation("Invalid request body"))
		return false
	}
	return true
}

// currentUser returns the authenticated user's ID, answering 401 when missing
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		respondError(c, apperror.Auth("Unauthorized request"))
	}
	return id, ok
}

// pathID parses the :id parameter
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperror.Validation("Invalid id"))
		return 0, false
	}
	return uint(id), true
}

// formImage opens the uploaded file under field. A missing file yields nil.
func formImage(c *gin.Context, field string) (*service.ImageFile, func()) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}
	}
	f, err := fh.Open()
	if err != nil {
		logrus.WithError(err).WithField("field", field).Warn("Failed to open uploaded file")
		return nil, func() {}
	}
	return &service.ImageFile{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }
}

// optionalForm returns a pointer to the form value when the field was sent
func optionalForm(c *gin.Context, field string) *string {
	if v, ok := c.GetPostForm(field); ok {
		return &v
	}
	return nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperror.Validation("price must be a number")
	}
	return price, nil
}

// CookieConfig controls the auth cookies
type CookieConfig struct {
	Secure     bool          // Send only over HTTPS
	AccessTTL  time.Duration // Lifetime of the access cookie
	RefreshTTL time.Duration // Lifetime of the refresh cookie
}

func setAuthCookies(c *gin.Context, cfg CookieConfig, access, refresh string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, access, int(cfg.AccessTTL.Seconds()), "/", "", cfg.Secure, true)
	c.SetCookie(middleware.RefreshCookie, refresh, int(cfg.RefreshTTL.Seconds()), "/", "", cfg.Secure, true)
}

func clearAuthCookies(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", cfg.Secure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", "", cfg.Secure, true)
}

// cached serves key from the cache or stores what load returns. Cache failures only cost a reload.
func cached[T any](c *gin.Context, cache *utils.Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	ctx := c.Request.Context()
	var v T
	found, err := cache.Get(ctx, key, &v)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache read failed")
	}
	if found && err == nil {
		return v, nil
	}
	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := cache.Set(ctx, key, v); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
	return v, nil
}

// invalidate drops every cached entry under the given prefixes
func invalidate(ctx context.Context, cache *utils.Cache, prefixes ...string) {
	for _, p := range prefixes {
		if err := cache.DeletePrefix(ctx, p); err != nil {
			logrus.WithError(err).WithField("prefix", p).Warn("Cache invalidation failed")
		}
	}
}
