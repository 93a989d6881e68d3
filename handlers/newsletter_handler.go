package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"jumpstart-backend/models"
	"jumpstart-backend/service"
	"jumpstart-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewsletterHandler handles HTTP requests for newsletters
type NewsletterHandler struct {
	newsletterService *service.NewsletterService
	notifyService     *service.NotificationService
	authService       *service.AuthService
	uploader          *Uploader
	storage           storage.Storage
	logger            *slog.Logger
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletterService *service.NewsletterService, notifyService *service.NotificationService, authService *service.AuthService, uploader *Uploader, store storage.Storage, logger *slog.Logger) *NewsletterHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsletterHandler{
		newsletterService: newsletterService,
		notifyService:     notifyService,
		authService:       authService,
		uploader:          uploader,
		storage:           store,
		logger:            logger,
	}
}

// Create handles POST /api/newsletters. The multipart form carries either a
// `pdf` file, or `templateIndex` + `sections` (JSON) + `images` (files).
// All validation that can fail without touching disk runs before any file is
// written.
func (h *NewsletterHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	title := c.PostForm("title")
	description := c.PostForm("description")
	sectionsRaw := c.PostForm("sections")

	pdfHeader, _ := c.FormFile("pdf")
	if pdfHeader == nil && sectionsRaw == "" {
		respondError(c, http.StatusBadRequest, models.CodeMissingFile, "PDF file is required")
		return
	}

	templateIndex, ok := h.formInt(c, "templateIndex")
	if !ok {
		return
	}
	published, ok := h.formBool(c, "published")
	if !ok {
		return
	}

	var sections []service.SectionInput
	var imageNames map[string]bool
	if sectionsRaw != "" {
		var err error
		sections, imageNames, err = service.ParseSections(sectionsRaw)
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
	}

	var saved []models.FileRef
	fail := func(err error) {
		h.uploader.Cleanup(ctx, saved...)
		handleServiceError(c, h.logger, err)
	}

	input := service.CreateNewsletterInput{
		Title:         title,
		Description:   description,
		TemplateIndex: templateIndex,
		Published:     published,
	}

	if pdfHeader != nil {
		ref, err := h.uploader.Save(ctx, pdfHeader, kindPDF)
		if err != nil {
			fail(err)
			return
		}
		saved = append(saved, ref)
		input.PDF = &ref
	}

	if len(sections) > 0 {
		uploads, refs, err := h.saveImages(c, imageNames)
		saved = append(saved, refs...)
		if err != nil {
			fail(err)
			return
		}
		input.Sections = sections
		input.ImageUploads = uploads
	}

	newsletter, err := h.newsletterService.CreateNewsletter(ctx, input)
	if err != nil {
		fail(err)
		return
	}

	c.JSON(http.StatusCreated, newsletter)
}

// List handles GET /api/newsletters. Public consumers see published
// newsletters only; `?all=true` with a valid admin token includes drafts.
func (h *NewsletterHandler) List(c *gin.Context) {
	publishedOnly := true
	if c.Query("all") == "true" {
		if !h.isAdmin(c) {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin token required to list drafts")
			return
		}
		publishedOnly = false
	}

	newsletters, err := h.newsletterService.ListNewsletters(c.Request.Context(), publishedOnly)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newsletters)
}

// Get handles GET /api/newsletters/:id
func (h *NewsletterHandler) Get(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	newsletter, err := h.newsletterService.GetNewsletter(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newsletter)
}

// Download handles GET /api/newsletters/:id/download, streaming the stored
// PDF.
func (h *NewsletterHandler) Download(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	newsletter, err := h.newsletterService.GetNewsletter(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	if newsletter.PDF == nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Newsletter has no PDF")
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), newsletter.PDF.StoragePath)
	if err != nil {
		h.logger.Error("failed to open stored PDF",
			slog.String("newsletter_id", id.String()),
			slog.String("path", newsletter.PDF.StoragePath),
			slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to read newsletter file")
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", newsletter.PDF.Filename))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Warn("pdf stream interrupted",
			slog.String("newsletter_id", id.String()),
			slog.String("error", err.Error()))
	}
}

// Update handles PUT /api/newsletters/:id with partial multipart fields
func (h *NewsletterHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.paramID(c)
	if !ok {
		return
	}

	// 404 before any file is written
	if _, err := h.newsletterService.GetNewsletter(ctx, id); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	input := service.UpdateNewsletterInput{}
	if title, present := c.GetPostForm("title"); present {
		input.Title = &title
	}
	if description, present := c.GetPostForm("description"); present {
		input.Description = &description
	}
	if raw, present := c.GetPostForm("templateIndex"); present {
		index, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, models.CodeInvalidRequest, "templateIndex must be an integer")
			return
		}
		input.TemplateIndex = &index
	}
	if raw, present := c.GetPostForm("published"); present {
		flag, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, models.CodeInvalidRequest, "published must be a boolean")
			return
		}
		input.Published = &flag
	}

	var sections []service.SectionInput
	var imageNames map[string]bool
	if sectionsRaw, present := c.GetPostForm("sections"); present {
		var err error
		sections, imageNames, err = service.ParseSections(sectionsRaw)
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
	}

	var saved []models.FileRef
	fail := func(err error) {
		h.uploader.Cleanup(ctx, saved...)
		handleServiceError(c, h.logger, err)
	}

	if pdfHeader, _ := c.FormFile("pdf"); pdfHeader != nil {
		ref, err := h.uploader.Save(ctx, pdfHeader, kindPDF)
		if err != nil {
			fail(err)
			return
		}
		saved = append(saved, ref)
		input.PDF = &ref
	}

	if sections != nil {
		uploads, refs, err := h.saveImages(c, imageNames)
		saved = append(saved, refs...)
		if err != nil {
			fail(err)
			return
		}
		input.Sections = sections
		input.ImageUploads = uploads
	}

	newsletter, err := h.newsletterService.UpdateNewsletter(ctx, id, input)
	if err != nil {
		fail(err)
		return
	}

	c.JSON(http.StatusOK, newsletter)
}

// Delete handles DELETE /api/newsletters/:id
func (h *NewsletterHandler) Delete(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	if err := h.newsletterService.DeleteNewsletter(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Newsletter deleted successfully"})
}

// Send handles POST /api/newsletters/:id/send, fanning the announcement out
// to all active subscribers and returning the aggregate summary.
func (h *NewsletterHandler) Send(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	summary, err := h.notifyService.SendNewsletter(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// saveImages validates and stores every file in the `images` field. Only
// files referenced by the sections payload are accepted.
func (h *NewsletterHandler) saveImages(c *gin.Context, wanted map[string]bool) (map[string]models.FileRef, []models.FileRef, error) {
	uploads := map[string]models.FileRef{}
	var saved []models.FileRef

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, models.NewValidationError(models.CodeInvalidRequest, "invalid multipart form")
	}

	for _, fileHeader := range form.File["images"] {
		if !wanted[fileHeader.Filename] {
			return uploads, saved, models.NewValidationError(models.CodeInvalidSections,
				"uploaded image %q is not referenced by any section", fileHeader.Filename)
		}
		ref, err := h.uploader.Save(c.Request.Context(), fileHeader, kindImage)
		if err != nil {
			return uploads, saved, err
		}
		saved = append(saved, ref)
		uploads[fileHeader.Filename] = ref
	}

	return uploads, saved, nil
}

func (h *NewsletterHandler) paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidID, "Invalid newsletter ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *NewsletterHandler) formInt(c *gin.Context, field string) (int, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidRequest, field+" must be an integer")
		return 0, false
	}
	return value, true
}

func (h *NewsletterHandler) formBool(c *gin.Context, field string) (*bool, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidRequest, field+" must be a boolean")
		return nil, false
	}
	return &value, true
}

// isAdmin checks the Authorization header without requiring the middleware,
// for routes that are public but expose extra data to admins.
func (h *NewsletterHandler) isAdmin(c *gin.Context) bool {
	token, ok := bearerToken(c)
	if !ok {
		return false
	}
	_, err := h.authService.ValidateToken(token)
	return err == nil
}
