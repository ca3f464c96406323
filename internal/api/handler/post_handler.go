package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type createPostRequest struct {
	Title   string   `json:"title"   validate:"required,max=200"`
	Summary string   `json:"summary" validate:"omitempty,max=500"`
	Content string   `json:"content" validate:"required"`
	Image   string   `json:"image"   validate:"omitempty,max=500"`
	Tags    []string `json:"tags"`
}

type updatePostRequest struct {
	Title   *string  `json:"title"   validate:"omitempty,max=200"`
	Summary *string  `json:"summary" validate:"omitempty,max=500"`
	Content *string  `json:"content"`
	Image   *string  `json:"image"   validate:"omitempty,max=500"`
	Tags    []string `json:"tags"`
}

type paginationResponse struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	PerPage     int   `json:"postsPerPage"`
	HasNext     bool  `json:"hasNextPage"`
	HasPrev     bool  `json:"hasPrevPage"`
}

type postListResponse struct {
	Success    bool               `json:"success"`
	Data       []domain.Post      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type postResponse struct {
	Success bool         `json:"success"`
	Data    *domain.Post `json:"data"`
}

// List handles GET /posts.
//
// @Summary      List posts, newest first
// @Tags         posts
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 50)"
// @Success      200    {object}  postListResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postListResponse{
		Success: true,
		Data:    result.Posts,
		Pagination: paginationResponse{
			CurrentPage: result.Page,
			TotalPages:  result.TotalPages,
			TotalPosts:  result.Total,
			PerPage:     result.Limit,
			HasNext:     result.HasNext,
			HasPrev:     result.HasPrev,
		},
	})
}

// Get handles GET /posts/:id. Reading a post records a view for the
// caller, deduplicated off the request path.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"), viewerKey(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postResponse{Success: true, Data: post})
}

// Create handles POST /posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.Create(c.Request().Context(), userID, ports.CreatePostInput{
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
		Image:   req.Image,
		Tags:    req.Tags,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, postResponse{Success: true, Data: post})
}

// Update handles PUT /posts/:id. Author only.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "Fields to update"
// @Success      200   {object}  postResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.Update(c.Request().Context(), c.Param("id"), userID, ports.UpdatePostInput{
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
		Image:   req.Image,
		Tags:    req.Tags,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postResponse{Success: true, Data: post})
}

// Delete handles DELETE /posts/:id. Author only.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  map[string]bool
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Like handles POST /posts/:id/like. One like per user; repeats are no-ops.
//
// @Summary      Like a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *PostHandler) Like(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	post, err := h.service.Like(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postResponse{Success: true, Data: post})
}
