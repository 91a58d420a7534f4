package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Add handles POST /projects/:id/comments.
//
// @Summary      Comment on a project
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Project id"
// @Param        body  body      addCommentRequest  true  "Comment content"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /projects/{id}/comments [post]
func (h *CommentHandler) Add(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Add(c.Request().Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// List handles GET /projects/:id/comments, oldest first.
//
// @Summary      List project comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  listResponse[domain.Comment]
// @Failure      403  {object}  map[string]string
// @Router       /projects/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	comments, err := h.service.List(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return c.JSON(http.StatusOK, listResponse[*domain.Comment]{Items: comments, Total: len(comments)})
}
