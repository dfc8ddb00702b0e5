package api

import (
	"github.com/go-chi/chi/v5"
)

// setupProjectRoutes mounts the public reads and the admin-only writes under /projects
func setupProjectRoutes(r chi.Router, handlers *routeHandlers, admin adminMiddleware) {
	r.Get("/health", handlers.healthHandler.health())

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", handlers.projectHandler.getAllProjects())
		r.Get("/find/{title}", handlers.projectHandler.findProjectByTitle())
		r.Get("/tag/{tag}", handlers.projectHandler.getProjectsByTag())
		r.Get("/tags", handlers.tagHandler.getTagsWithProjects())

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(admin.authorize)

			r.Post("/", handlers.projectHandler.createProject())
			r.Put("/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
			r.Put("/tag/{tag}", handlers.tagHandler.renameTag())
			r.Delete("/tag/{tag}", handlers.tagHandler.deleteTag())
		})
	})
}
