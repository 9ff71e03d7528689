package api

import (
	"context"  // Health check
	"net/http" // HTTP status codes

	"github.com/Neeraj-1996/mlmbackend/internal/config"     // Token settings
	"github.com/Neeraj-1996/mlmbackend/internal/middleware" // Auth, CORS, limits, metrics
	"github.com/Neeraj-1996/mlmbackend/internal/response"   // Response envelope
	"github.com/Neeraj-1996/mlmbackend/internal/service"    // Business rules
	"github.com/Neeraj-1996/mlmbackend/internal/utils"      // Cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Access log sink
)

// Deps is everything the router wires into handlers
type Deps struct {
	Auth        *service.AuthService        // Register, login, tokens
	Withdrawals *service.WithdrawalService  // Withdrawal ledger
	Catalog     *service.CatalogService     // Admin catalog and dashboard
	Users       middleware.UserFinder       // Role lookups for the admin group
	Cache       *utils.Cache                // Admin listing cache, nil disables caching
	Tokens      config.TokenConfig          // Access token verification
	Cookies     CookieConfig                // Auth cookie settings
	Limiter     *middleware.RateLimiter     // Guards /login and /sendOtp, nil disables limiting
	Metrics     *middleware.Metrics         // Request metrics, nil disables /metrics
	CORSOrigins []string                    // Allowed browser origins
	Ping        func(context.Context) error // Readiness probe for /healthz
}

// NewRouter builds the HTTP surface
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(logrus.StandardLogger().Writer()), response.Recovery())
	r.Use(middleware.CORS(d.CORSOrigins))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Route not found")
	})
	r.GET("/healthz", healthHandler(d.Ping))

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{d.Limiter.Middleware(), h}
	}

	// Public routes
	r.POST("/register", RegisterHandler(d.Auth, d.Cache))
	r.POST("/login", limited(LoginHandler(d.Auth, d.Cookies))...)
	r.POST("/sendOtp", limited(SendOtpHandler(d.Auth))...)
	r.POST("/refresh-token", RefreshTokenHandler(d.Auth, d.Cookies))

	// Authenticated routes
	user := r.Group("")
	user.Use(middleware.JWTAuthMiddleware(d.Tokens))
	user.PATCH("/avatar", UpdateAvatarHandler(d.Auth, d.Cache))
	user.POST("/logout", LogoutHandler(d.Auth, d.Cookies))
	user.POST("/change-password", ChangePasswordHandler(d.Auth))
	user.GET("/current-user", CurrentUserHandler(d.Auth))
	user.PATCH("/update-account", UpdateAccountHandler(d.Auth, d.Cache))
	user.POST("/withdrawalrequest", SubmitWithdrawalHandler(d.Withdrawals, d.Cache))
	user.GET("/getwithdrawalrequest", GetWithdrawalsHandler(d.Withdrawals))
	user.POST("/withdrawalrequest/status", UserWithdrawalStatusHandler(d.Withdrawals, d.Cache))
	user.DELETE("/withdrawalrequest/delete", DeleteWithdrawalHandler(d.Withdrawals, d.Cache))

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(d.Tokens), middleware.AdminOnlyMiddleware(d.Users))
	admin.GET("/home", HomeHandler(d.Catalog, d.Cache))
	admin.POST("/addProduct", AddProductHandler(d.Catalog, d.Cache))
	admin.GET("/getAllProducts", ProductsHandler(d.Catalog, d.Cache))
	admin.PATCH("/updateProduct/:id", UpdateProductHandler(d.Catalog, d.Cache))
	admin.DELETE("/deleteProduct/:id", DeleteProductHandler(d.Catalog, d.Cache))
	admin.POST("/addSlider", AddSliderHandler(d.Catalog, d.Cache))
	admin.GET("/getSliders", SlidersHandler(d.Catalog, d.Cache))
	admin.DELETE("/deleteSlider/:id", DeleteSliderHandler(d.Catalog, d.Cache))
	admin.POST("/addEvent", AddEventHandler(d.Catalog, d.Cache))
	admin.GET("/getEvents", EventsHandler(d.Catalog, d.Cache))
	admin.PATCH("/updateEvent/:id", UpdateEventHandler(d.Catalog, d.Cache))
	admin.DELETE("/deleteEvent/:id", DeleteEventHandler(d.Catalog, d.Cache))
	admin.GET("/getUserRecords", UserRecordsHandler(d.Catalog, d.Cache))
	admin.GET("/withdrawalrequests", AdminWithdrawalsHandler(d.Withdrawals, d.Cache))
	admin.POST("/withdrawalrequest/status", AdminWithdrawalStatusHandler(d.Withdrawals, d.Cache))

	return r
}

func healthHandler(ping func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				logrus.WithError(err).Error("Health check failed")
				response.Fail(c, http.StatusServiceUnavailable, "Unavailable")
				return
			}
		}
		response.OK(c, http.StatusOK, gin.H{"status": "ok"}, "Healthy")
	}
}
