package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

// CommentHandler handles HTTP requests for post comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type commentResponse struct {
	Success bool            `json:"success"`
	Data    *domain.Comment `json:"data"`
}

type commentListResponse struct {
	Success bool             `json:"success"`
	Data    []domain.Comment `json:"data"`
}

// List handles GET /posts/:id/comments.
//
// @Summary      List comments for a post
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  commentListResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.service.ListByPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, commentListResponse{Success: true, Data: comments})
}

// Add handles POST /posts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      addCommentRequest  true  "Comment content"
// @Success      201   {object}  commentResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
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

	comment, err := h.service.Add(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, commentResponse{Success: true, Data: comment})
}
