package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/zaqqye/authorsite_backend/internal/config"
	"github.com/zaqqye/authorsite_backend/internal/controllers"
	"github.com/zaqqye/authorsite_backend/internal/database"
	"github.com/zaqqye/authorsite_backend/internal/middleware"
	"github.com/zaqqye/authorsite_backend/internal/response"
	"github.com/zaqqye/authorsite_backend/internal/ws"
)

type Deps struct {
	Config  *config.Config
	DB      *database.Clients
	Limiter middleware.Limiter
	Events  *ws.Hub
}

// New builds the engine with the middleware chain in its fixed order and
// mounts every route.
func New(d Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		log.Warn().Err(err).Msg("invalid TRUSTED_PROXIES, trusting none")
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(d.Config.IsProduction()),
		middleware.SecurityHeaders(),
		middleware.CORS(d.Config.ClientURL),
	)
	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter))
	}
	r.Use(middleware.BodyLimit(d.Config.BodyLimit))

	Register(r, d)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})
	return r
}

func Register(r *gin.Engine, d Deps) {
	cfg := d.Config
	authCfg := middleware.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}

	// Controllers
	authCtrl := &controllers.AuthController{DB: d.DB.Admin, Auth: authCfg, ExpiresIn: cfg.JWT.ExpiresIn, Events: d.Events}
	contentCtrl := &controllers.ContentController{Public: d.DB.Public, Admin: d.DB.Admin, Events: d.Events}
	menuCtrl := &controllers.MenuController{Public: d.DB.Public, Admin: d.DB.Admin, Events: d.Events}
	blogCtrl := &controllers.BlogController{Public: d.DB.Public, Admin: d.DB.Admin, Events: d.Events}
	adminCtrl := &controllers.AdminController{DB: d.DB.Admin, Events: d.Events}
	healthCtrl := &controllers.HealthController{DB: d.DB}

	authMW := middleware.AuthMiddleware(authCfg)
	staff := middleware.RequireRoles(controllers.RoleAdmin, controllers.RoleEditor)

	api := r.Group("/api")

	api.GET("/health", healthCtrl.Health)
	api.GET("/health/ready", healthCtrl.Ready)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authCtrl.Login)
		auth.GET("/me", authMW, authCtrl.Me)
		auth.POST("/logout", authMW, authCtrl.Logout)
		// only admins create further accounts
		auth.POST("/register", authMW, middleware.RequireRoles(controllers.RoleAdmin), authCtrl.Register)
	}

	// Public content
	content := api.Group("/content")
	{
		content.GET("", contentCtrl.List)
		content.GET("/menu/items", menuCtrl.List)
		content.GET("/:section", contentCtrl.GetSection)
	}

	blog := api.Group("/blog")
	{
		blog.GET("", blogCtrl.ListPublished)
		blog.GET("/:id", blogCtrl.GetPublished)

		blogAdmin := blog.Group("/admin", authMW, staff)
		{
			blogAdmin.GET("/all", blogCtrl.AdminList)
			blogAdmin.POST("", blogCtrl.Create)
			blogAdmin.PUT("/:id", blogCtrl.Update)
			blogAdmin.DELETE("/:id", blogCtrl.Delete)
			blogAdmin.PUT("/:id/publish", blogCtrl.Publish)
			blogAdmin.PUT("/:id/unpublish", blogCtrl.Unpublish)
		}
	}

	admin := api.Group("/admin", authMW, staff)
	{
		admin.GET("/content", contentCtrl.AdminList)
		admin.POST("/content", contentCtrl.Create)
		admin.PUT("/content/:id", contentCtrl.Update)
		admin.DELETE("/content/:id", contentCtrl.Delete)

		admin.GET("/menu", menuCtrl.AdminList)
		admin.POST("/menu", menuCtrl.Create)
		admin.PUT("/menu/:id", menuCtrl.Update)
		admin.DELETE("/menu/:id", menuCtrl.Delete)

		admin.GET("/events", ws.Handler(d.Events))

		// Account management is admin-only
		users := admin.Group("/users", middleware.RequireRoles(controllers.RoleAdmin))
		{
			users.GET("", adminCtrl.ListUsers)
			users.POST("", authCtrl.Register)
			users.GET("/:id", adminCtrl.GetUser)
			users.PUT("/:id", adminCtrl.UpdateUser)
			users.DELETE("/:id", adminCtrl.DeleteUser)
		}
	}
}
