package handlers

import (
	"log/slog"
	"net/http"

	"jumpstart-backend/models"
	"jumpstart-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PostHandler handles HTTP requests for blog posts
type PostHandler struct {
	postService *service.PostService
	uploader    *Uploader
	logger      *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *service.PostService, uploader *Uploader, logger *slog.Logger) *PostHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostHandler{
		postService: postService,
		uploader:    uploader,
		logger:      logger,
	}
}

// Create handles POST /api/posts. The multipart form carries `title`,
// `content` and an optional `image` file.
func (h *PostHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	title := c.PostForm("title")
	content := c.PostForm("content")

	var image *models.FileRef
	if fileHeader, _ := c.FormFile("image"); fileHeader != nil {
		ref, err := h.uploader.Save(ctx, fileHeader, kindImage)
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
		image = &ref
	}

	post, err := h.postService.CreatePost(ctx, title, content, image)
	if err != nil {
		if image != nil {
			h.uploader.Cleanup(ctx, *image)
		}
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List handles GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Get handles GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update handles PUT /api/posts/:id with partial multipart fields
func (h *PostHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.paramID(c)
	if !ok {
		return
	}

	var title, content *string
	if value, present := c.GetPostForm("title"); present {
		title = &value
	}
	if value, present := c.GetPostForm("content"); present {
		content = &value
	}

	var image *models.FileRef
	if fileHeader, _ := c.FormFile("image"); fileHeader != nil {
		ref, err := h.uploader.Save(ctx, fileHeader, kindImage)
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
		image = &ref
	}

	post, err := h.postService.UpdatePost(ctx, id, title, content, image)
	if err != nil {
		if image != nil {
			h.uploader.Cleanup(ctx, *image)
		}
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *PostHandler) paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidID, "Invalid post ID")
		return uuid.Nil, false
	}
	return id, true
}
