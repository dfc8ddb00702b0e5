package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devfolio/projects-api/database"
	"github.com/devfolio/projects-api/models"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newProjectHandler(db database.Database) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// getAllProjects retrieves all projects with their tags and descriptions
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.db.ListProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: models.SerializeProjects(projects),
			Total:    len(projects),
		})
	}
}

// findProjectByTitle retrieves the first project whose title matches
// @Summary Find project by title
// @Description Underscores in the title match a single space or underscore
// @Tags Projects
// @Produce json
// @Param title path string true "URL-friendly project title"
// @Success 200 {object} models.ProjectResponse
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/find/{title} [get]
func (h projectHandler) findProjectByTitle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title, err := pathParam(r, "title")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.db.FindProjectByTitle(r.Context(), title)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project.Serialize())
	}
}

// getProjectsByTag retrieves the projects carrying a tag
// @Summary Get projects by tag
// @Tags Projects
// @Produce json
// @Param tag path string true "URL-friendly tag name"
// @Success 200 {object} ProjectCollection
// @Failure 404 {object} ErrorResponse "Not Found - No such tag, or the tag has no projects"
// @Router /projects/tag/{tag} [get]
func (h projectHandler) getProjectsByTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagName, err := pathParam(r, "tag")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.db.FindProjectsByTag(r.Context(), tagName)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: models.SerializeProjects(projects),
			Total:    len(projects),
		})
	}
}

// createProject creates a new project with its tags and descriptions
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.ProjectResponse "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if err := decodeJSON(r, &req, "project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, err := req.toInput()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.db.CreateProject(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("username", ctxGetUsername(r.Context())).
			Uint("projectID", project.ID).
			Msg("Project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, project.Serialize())
	}
}

// updateProject applies a partial update to an existing project
// @Summary Update project
// @Description Only the fields present in the body change. tags and descriptions replace the existing sets.
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectID path int true "Project ID"
// @Success 200 {object} models.ProjectResponse "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid or empty update"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := idParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Verify project exists before looking at the body
		if _, err := h.db.ProjectRepo().FindByID(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req projectRequest
		if err := decodeJSON(r, &req, "project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		patch, err := req.toPatch()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.db.UpdateProject(r.Context(), projectID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("username", ctxGetUsername(r.Context())).
			Uint("projectID", project.ID).
			Msg("Project updated")
		h.responder.WriteJSON(w, project.Serialize())
	}
}

// deleteProject deletes a project, its descriptions and its tag links
// @Summary Delete project
// @Tags Projects
// @Security BearerAuth
// @Param projectID path int true "Project ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := idParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.db.DeleteProject(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("username", ctxGetUsername(r.Context())).
			Uint("projectID", projectID).
			Msg("Project deleted")
		h.responder.WriteNoContent(w)
	}
}
