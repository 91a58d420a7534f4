package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

// ProjectHandler handles HTTP requests for the project lifecycle.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Create handles POST /projects.
//
// @Summary      Create a funding request
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.service.Create(c.Request().Context(), actor, toCreateProjectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// List handles GET /projects with optional status, category, and search
// filters. Visibility is derived from the caller's role.
//
// @Summary      List visible projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"
// @Param        category  query     string  false  "Filter by category"
// @Param        search    query     string  false  "Substring search over title and description"
// @Success      200       {object}  listResponse[domain.Project]
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	projects, err := h.service.List(c.Request().Context(), actor, ports.ListProjectsInput{
		Status:   domain.ProjectStatus(c.QueryParam("status")),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	return c.JSON(http.StatusOK, listResponse[*domain.Project]{Items: projects, Total: len(projects)})
}

// Get handles GET /projects/:id.
//
// @Summary      Get one project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  domain.Project
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	p, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PUT /projects/:id.
//
// @Summary      Edit a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project id"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  domain.Project
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	p, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), toUpdateProjectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Submit handles POST /projects/:id/submit.
//
// @Summary      Submit a project for review
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /projects/{id}/submit [post]
func (h *ProjectHandler) Submit(c echo.Context) error {
	return h.transition(c, h.service.Submit, "Projet soumis pour validation")
}

// Validate handles POST /projects/:id/validate.
//
// @Summary      Validate a pending project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /projects/{id}/validate [post]
func (h *ProjectHandler) Validate(c echo.Context) error {
	return h.transition(c, h.service.Validate, "Projet validé")
}

// Approve handles POST /projects/:id/approve.
//
// @Summary      Approve a validated project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /projects/{id}/approve [post]
func (h *ProjectHandler) Approve(c echo.Context) error {
	return h.transition(c, h.service.Approve, "Projet approuvé")
}

// Reject handles POST /projects/:id/reject. A non-empty reason is required.
//
// @Summary      Reject a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Project id"
// @Param        body  body      reasonRequest  true  "Rejection reason"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /projects/{id}/reject [post]
func (h *ProjectHandler) Reject(c echo.Context) error {
	return h.transitionWithReason(c, h.service.Reject, "Projet rejeté")
}

// RequestDocuments handles POST /projects/:id/request-documents.
//
// @Summary      Request additional documents
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Project id"
// @Param        body  body      reasonRequest  true  "What is missing"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /projects/{id}/request-documents [post]
func (h *ProjectHandler) RequestDocuments(c echo.Context) error {
	return h.transitionWithReason(c, h.service.RequestDocuments, "Documents supplémentaires demandés")
}

// UploadDocument handles POST /projects/:id/documents.
//
// @Summary      Attach a document to a project
// @Tags         projects
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Project id"
// @Param        file  formData  file    true  "Document file (pdf, jpeg, png, webp; 5 MiB max)"
// @Success      201   {object}  domain.ProjectDocument
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /projects/{id}/documents [post]
func (h *ProjectHandler) UploadDocument(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	up, err := readUpload(c)
	if err != nil {
		return err
	}

	doc, err := h.service.UploadDocument(c.Request().Context(), actor, c.Param("id"), up)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// DeleteDocument handles DELETE /projects/:id/documents/:documentId.
//
// @Summary      Remove a document from a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true  "Project id"
// @Param        documentId  path      string  true  "Document id"
// @Success      200         {object}  messageResponse
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /projects/{id}/documents/{documentId} [delete]
func (h *ProjectHandler) DeleteDocument(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteDocument(c.Request().Context(), actor, c.Param("id"), c.Param("documentId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Document supprimé"})
}

// History handles GET /projects/:id/history.
//
// @Summary      Project audit history
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  listResponse[domain.HistoryEntry]
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id}/history [get]
func (h *ProjectHandler) History(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	entries, err := h.service.History(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}
	return c.JSON(http.StatusOK, listResponse[*domain.HistoryEntry]{Items: entries, Total: len(entries)})
}

// Categories handles GET /categories (and the /projects/categories alias).
//
// @Summary      List accepted project categories
// @Tags         projects
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /categories [get]
func (h *ProjectHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, categoriesResponse{Categories: domain.Categories})
}

// transition runs a reasonless lifecycle operation and renders the standard
// confirmation envelope.
func (h *ProjectHandler) transition(c echo.Context, fn func(context.Context, ports.Actor, string) error, message string) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := fn(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: message})
}

// transitionWithReason is transition for operations that require a reason in
// the request body.
func (h *ProjectHandler) transitionWithReason(c echo.Context, fn func(context.Context, ports.Actor, string, string) error, message string) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req reasonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := fn(c.Request().Context(), actor, c.Param("id"), req.Reason); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: message})
}
