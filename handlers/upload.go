package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"jumpstart-backend/models"
	"jumpstart-backend/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// fileKind selects the content-type allowlist for an upload field
type fileKind int

const (
	kindPDF fileKind = iota
	kindImage
)

// Uploader validates multipart file uploads and writes accepted files to
// storage. MIME types are verified by sniffing the content, not by trusting
// the client-supplied header.
type Uploader struct {
	storage     storage.Storage
	maxFileSize int64
	logger      *slog.Logger
}

// NewUploader creates an upload helper
func NewUploader(store storage.Storage, maxFileSize int64, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		storage:     store,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Save validates one uploaded file against the size limit and the allowlist
// for its kind, then writes it to storage. The returned reference is only
// produced after the file is durably written. Rejected files are never
// written to disk.
func (u *Uploader) Save(ctx context.Context, fileHeader *multipart.FileHeader, kind fileKind) (models.FileRef, error) {
	if fileHeader.Size > u.maxFileSize {
		return models.FileRef{}, models.NewValidationError(models.CodeFileTooLarge,
			"file %q exceeds the maximum size of %d bytes", fileHeader.Filename, u.maxFileSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.FileRef{}, fmt.Errorf("open uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("detect mime type: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return models.FileRef{}, fmt.Errorf("rewind uploaded file: %w", err)
	}

	switch kind {
	case kindPDF:
		if !mtype.Is("application/pdf") {
			return models.FileRef{}, models.NewValidationError(models.CodeInvalidFileType,
				"file %q is not a PDF", fileHeader.Filename)
		}
	case kindImage:
		if !strings.HasPrefix(mtype.String(), "image/") {
			return models.FileRef{}, models.NewValidationError(models.CodeInvalidFileType,
				"file %q is not an image", fileHeader.Filename)
		}
	}

	storagePath, err := u.storage.Upload(ctx, uuid.New(), fileHeader.Filename, file)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("store uploaded file %q: %w", fileHeader.Filename, err)
	}

	return models.FileRef{
		URL:         u.storage.PublicURL(storagePath),
		Filename:    fileHeader.Filename,
		StoragePath: storagePath,
	}, nil
}

// Cleanup best-effort deletes previously saved files after a later step in
// the same request failed.
func (u *Uploader) Cleanup(ctx context.Context, refs ...models.FileRef) {
	for _, ref := range refs {
		if ref.StoragePath == "" {
			continue
		}
		if err := u.storage.Delete(ctx, ref.StoragePath); err != nil {
			u.logger.Warn("failed to clean up uploaded file",
				slog.String("path", ref.StoragePath),
				slog.String("error", err.Error()))
		}
	}
}
