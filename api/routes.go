package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func setupPublicRoutes(r chi.Router, handlers *routeHandlers, trackHome func(http.Handler) http.Handler) {
	r.With(trackHome).Get("/", handlers.publicHandler.home())
	r.Post("/contact", handlers.publicHandler.contact())
	r.Get("/cv.pdf", handlers.publicHandler.cvPDF())
}

func setupAPIRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.publicHandler.health())
	r.Get("/projects", handlers.publicHandler.getAllProjects())
	r.Get("/technologies", handlers.publicHandler.getAllTechnologies())
	r.Get("/experiences", handlers.publicHandler.getAllExperiences())
	r.Post("/messages", handlers.publicHandler.createMessage())
	r.Post("/page-views", handlers.publicHandler.createPageView())
}

func setupLoginRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/login", handlers.loginHandler.loginPage())
	r.Post("/login", handlers.loginHandler.login())
	r.Post("/logout", handlers.loginHandler.logout())
}

// setupAdminRoutes mounts the admin panel. Every POST redirects back to GET /admin.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, requireUser func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Use(handlers.adminHandler.withWorkspace)

		r.Get("/admin", handlers.adminHandler.page())
		r.Post("/admin/add", handlers.adminHandler.openAdd())
		r.Post("/admin/edit/{id}", handlers.adminHandler.openEdit())
		r.Post("/admin/draft", handlers.adminHandler.updateDraft())
		r.Post("/admin/upload", handlers.adminHandler.upload())
		r.Post("/admin/save", handlers.adminHandler.save())
		r.Post("/admin/cancel", handlers.adminHandler.cancel())
		r.Post("/admin/delete/confirm", handlers.adminHandler.confirmDelete())
		r.Post("/admin/delete/cancel", handlers.adminHandler.cancelDelete())
		r.Post("/admin/delete/{collection}/{id}", handlers.adminHandler.requestDelete())
	})
}
