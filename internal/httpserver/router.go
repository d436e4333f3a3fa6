package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mirskikh/inkwell/internal/authz"
	authmw "github.com/mirskikh/inkwell/internal/middleware/auth"
)

type Deps struct {
	Gate    *authmw.Gate
	Auth    *AuthHTTP
	Posts   *PostHTTP
	Users   *UserHTTP
	Cats    *CategoryHTTP
	Images  *ImageHTTP
	Setting *SettingHTTP
	Contact *ContactHTTP
	Public  *PublicHTTP

	UploadDir string
	AdminDir  string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.POST("/auth/refresh", d.Auth.Refresh)
	api.POST("/auth/logout", d.Auth.Logout)
	api.GET("/auth/me", d.Auth.Me, d.Gate.RequireAuth())

	// public blog surface
	api.GET("/posts", d.Public.ListPosts)
	api.GET("/posts/search", d.Public.SearchPosts)
	api.GET("/posts/:slug", d.Public.GetPost)
	api.GET("/categories", d.Public.ListCategories)
	api.GET("/settings", d.Public.GetSettings)
	api.POST("/contact", d.Contact.Submit)

	// admin API: role guards come straight from the permission matrix
	admin := api.Group("/admin")

	posts := admin.Group("/posts", d.Gate.RequireAuth(authz.RolesFor(authz.PermManagePosts)...))
	posts.GET("", d.Posts.List)
	posts.POST("", d.Posts.Create)
	posts.GET("/:id", d.Posts.Get)
	posts.PUT("/:id", d.Posts.Update)
	posts.DELETE("/:id", d.Posts.Delete)

	users := admin.Group("/users", d.Gate.RequireAuth(authz.RolesFor(authz.PermManageUsers)...))
	users.GET("", d.Users.List)
	users.POST("", d.Users.Create)
	users.PUT("/:id", d.Users.Update)
	users.DELETE("/:id", d.Users.Delete)

	admin.PUT("/profile", d.Users.UpdateProfile, d.Gate.RequireAuth())

	cats := admin.Group("/categories", d.Gate.RequireAuth(authz.RolesFor(authz.PermManageCategories)...))
	cats.POST("", d.Cats.Create)
	cats.GET("", d.Cats.List)
	cats.PUT("/:id", d.Cats.Update)
	cats.DELETE("/:id", d.Cats.Delete)

	images := admin.Group("/images", d.Gate.RequireAuth(authz.RolesFor(authz.PermManageImages)...))
	images.POST("", d.Images.Upload)
	images.GET("", d.Images.List)
	images.DELETE("/:id", d.Images.Delete)

	settings := admin.Group("/settings", d.Gate.RequireAuth(authz.RolesFor(authz.PermManageSettings)...))
	settings.GET("", d.Setting.Get)
	settings.PUT("", d.Setting.Update)

	messages := admin.Group("/messages", d.Gate.RequireAuth(authz.RolesFor(authz.PermViewContactMessages)...))
	messages.GET("", d.Contact.List)
	messages.PUT("/:id/read", d.Contact.MarkRead)
	messages.DELETE("/:id", d.Contact.Delete)

	// uploaded media
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	// admin dashboard pages sit behind the presence-only gatekeeper; full
	// verification happens per API call above
	if d.AdminDir != "" {
		pages := e.Group("/admin", authmw.Gatekeeper("/login"))
		pages.Static("", d.AdminDir)
		e.Static("/login", d.AdminDir)
	}
}
