package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// limiters holds the rate limit middleware for the routes that need one.
type limiters struct {
	contact func(http.Handler) http.Handler
	login   func(http.Handler) http.Handler
}

// setupOperationalRoutes sets up health checks and the metrics endpoint
func setupOperationalRoutes(r chi.Router, handlers *routeHandlers, metrics *Metrics) {
	r.Get("/health", handlers.healthHandler.live())
	r.Get("/health/ready", handlers.healthHandler.ready())
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
}

// setupPublicRoutes sets up the routes the site itself calls
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, limits limiters) {
	r.Get("/projects", handlers.projectHandler.listProjects())
	r.Get("/projects/{id}", handlers.projectHandler.getProject())
	r.Get("/public/projects", handlers.projectHandler.listPublicProjects())

	r.Get("/public/blogs", handlers.blogPostHandler.listPublicBlogPosts())
	r.Get("/public/blogs/{id}", handlers.blogPostHandler.getPublicBlogPost())

	r.With(limits.contact).Post("/contact", handlers.contactHandler.submitContact())
}

// setupAuthRoutes sets up the account endpoints. Only verify and
// update-profile need a session.
func setupAuthRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limits limiters) {
	r.Group(func(r chi.Router) {
		r.Use(limits.login)

		r.Post("/setup", handlers.authHandler.setup())
		r.Post("/login", handlers.authHandler.login())
		r.Post("/recovery", handlers.authHandler.recovery())
	})
	r.Post("/reset-password", handlers.authHandler.resetPassword())

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Get("/verify", handlers.authHandler.verify())
		r.Post("/update-profile", handlers.authHandler.updateProfile())
	})
}

// setupAdminRoutes sets up all routes with authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		// Project Handler endpoints
		r.Get("/admin/projects", handlers.projectHandler.listAllProjects())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/projects/{id}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())

		// Blog Post Handler endpoints
		r.Get("/blogs", handlers.blogPostHandler.listBlogPosts())
		r.Get("/blogs/{id}", handlers.blogPostHandler.getBlogPost())
		r.Post("/blogs", handlers.blogPostHandler.createBlogPost())
		r.Put("/blogs/{id}", handlers.blogPostHandler.updateBlogPost())
		r.Delete("/blogs/{id}", handlers.blogPostHandler.deleteBlogPost())

		r.Get("/messages", handlers.messageHandler.listMessages())
	})
}
