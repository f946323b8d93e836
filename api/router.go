package api

import (
	"foodflow/cache"
	"foodflow/cart"
	"foodflow/config"
	"foodflow/logger"
	"foodflow/notify"
	"foodflow/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cfg      *config.Config
	cart     *cart.Store
	cache    *cache.Client
	composer *services.Composer
	google   *services.GoogleVerifier
	notifier *notify.Telegram // nil when Telegram is not configured
	log      *logger.Logger
}

func NewHandler(cfg *config.Config, cartStore *cart.Store, cc *cache.Client,
	composer *services.Composer, google *services.GoogleVerifier,
	notifier *notify.Telegram, log *logger.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		cart:     cartStore,
		cache:    cc,
		composer: composer,
		google:   google,
		notifier: notifier,
		log:      log,
	}
}

func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	{
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/google", h.GoogleSignIn)

		api.GET("/restaurants", h.ListRestaurants)
		api.GET("/restaurants/:id", h.GetRestaurant)

		auth := api.Group("", h.RequireAuth())
		{
			auth.GET("/me", h.Me)
			auth.DELETE("/me", h.DeleteAccount)

			auth.GET("/cart", h.GetCart)
			auth.POST("/cart/items", h.AddCartItem)
			auth.DELETE("/cart", h.ClearCart)

			auth.GET("/checkout/quote", h.Quote)
			auth.POST("/checkout", h.PlaceOrder)

			auth.GET("/orders", h.ListOrders)
			auth.POST("/orders/:id/cancel", h.CancelOrder)
			auth.DELETE("/orders/:id", h.DeleteOrder)
			auth.DELETE("/orders", h.ClearOrderHistory)
			auth.GET("/orders/:id/track", h.TrackOrder)

			auth.GET("/favorites", h.ListFavorites)
			auth.PUT("/favorites/:restaurantId", h.AddFavorite)
			auth.DELETE("/favorites/:restaurantId", h.RemoveFavorite)

			auth.POST("/applications", h.SubmitApplication)
			auth.GET("/applications", h.ListMyApplications)
		}

		admin := api.Group("/admin", h.RequireAuth(), h.RequireAdmin())
		{
			admin.GET("/orders", h.AdminListOrders)
			admin.GET("/stats/daily", h.AdminDailyStats)
			admin.GET("/users", h.AdminListUsers)
			admin.POST("/users/role", h.AdminSetRole)
			admin.GET("/applications", h.AdminListApplications)
			admin.POST("/applications/:id/review", h.AdminReviewApplication)
		}
	}
	return r
}
