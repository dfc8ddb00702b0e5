package api

import (
	"github.com/devfolio/projects-api/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	tagHandler     tagHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"project not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection represents a list of serialized projects
type ProjectCollection struct {
	Projects []models.ProjectResponse `json:"projects"`
	Total    int                      `json:"total"`
}

// TagCollection represents a list of tags with the titles of their projects
type TagCollection struct {
	Tags  []models.TagResponse `json:"tags"`
	Total int                  `json:"total"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
	Uptime   string `json:"uptime" example:"1h2m3s"`
}
