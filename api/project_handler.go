package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  ProjectStore
}

func newProjectHandler(projects ProjectStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// listProjects retrieves active projects, optionally paginated
// @Summary List projects
// @Description Active projects ordered by sortOrder, then year and id descending. With ?page the result is paginated.
// @Tags Projects
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Router /api/projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, paginated := parsePage(r, resourcePageLimits)
		if !paginated {
			projects, err := h.projects.ListActive(r.Context())
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("list", "projects", err))
				return
			}
			h.responder.WriteJSON(w, envelope{"projects": models.NewProjectViews(projects)})
			return
		}

		projects, total, err := h.projects.ListActivePage(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "projects", err))
			return
		}
		h.responder.WriteJSON(w, envelope{
			"projects":   models.NewProjectViews(projects),
			"pagination": models.NewPagination(page, total),
		})
	}
}

// listPublicProjects is the unpaginated feed the site renders.
func (h projectHandler) listPublicProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.ListActive(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "projects", err))
			return
		}
		h.responder.WriteJSON(w, envelope{"projects": models.NewProjectViews(projects)})
	}
}

// listAllProjects includes inactive projects for the dashboard.
func (h projectHandler) listAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.ListAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "projects", err))
			return
		}
		h.responder.WriteJSON(w, envelope{"projects": models.NewProjectViews(projects)})
	}
}

func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindActive(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		h.responder.WriteJSON(w, envelope{"project": models.NewProjectView(*project)})
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.ProjectInput true "Project data"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.ProjectInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := input.Apply()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Create(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Uint("projectId", project.ID).Str("title", project.Title).Msg("Project created")
		h.responder.WriteJSON(w, envelope{"id": project.ID})
	}
}

// updateProject overwrites every field of an existing project
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.ProjectInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := input.Apply()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Replace(r.Context(), id, &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, envelope{"id": id})
	}
}

// deleteProject is idempotent: a missing id still answers ok.
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}
		h.responder.WriteJSON(w, nil)
	}
}
