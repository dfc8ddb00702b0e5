package api

import (
	"time"

	"github.com/devfolio/projects-api/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(db),
		tagHandler:     newTagHandler(db),
		healthHandler:  newHealthHandler(db, startupTime),
	}
}
