package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devfolio/projects-api/database"
	"github.com/devfolio/projects-api/models"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newTagHandler(db database.Database) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// getTagsWithProjects lists the tags in use with the titles of their projects
// @Summary Get tags in use
// @Tags Tags
// @Produce json
// @Success 200 {object} TagCollection
// @Failure 404 {object} ErrorResponse "Not Found - No tag has a project"
// @Router /projects/tags [get]
func (h tagHandler) getTagsWithProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.db.TagsWithProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		resp := make([]models.TagResponse, 0, len(tags))
		for _, t := range tags {
			resp = append(resp, t.SerializeWithProjects())
		}
		h.responder.WriteJSON(w, TagCollection{Tags: resp, Total: len(resp)})
	}
}

// renameTag changes the name of a tag
// @Summary Rename tag
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tag path int true "Tag ID"
// @Success 200 {object} models.TagResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing name"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Failure 409 {object} ErrorResponse "Conflict - Name already taken"
// @Router /projects/tag/{tag} [put]
func (h tagHandler) renameTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := idParam(r, "tag")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req renameTagRequest
		if err := decodeJSON(r, &req, "tag"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.db.RenameTag(r.Context(), tagID, strings.TrimSpace(req.Name))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("username", ctxGetUsername(r.Context())).
			Uint("tagID", tag.ID).
			Str("name", tag.Name).
			Msg("Tag renamed")
		h.responder.WriteJSON(w, tag.Serialize())
	}
}

// deleteTag deletes the tag with exactly this name. Its projects are kept.
// @Summary Delete tag
// @Tags Tags
// @Security BearerAuth
// @Param tag path string true "Exact tag name"
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /projects/tag/{tag} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := pathParam(r, "tag")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.db.DeleteTag(r.Context(), name); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("username", ctxGetUsername(r.Context())).
			Str("tag", name).
			Msg("Tag deleted")
		h.responder.WriteNoContent(w)
	}
}
