package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"solgigs/internal/domain/entity"
	"solgigs/internal/infrastructure/storage"
	"solgigs/pkg/errors"
	"solgigs/pkg/response"
)

type FileHandler struct {
	storageClient *storage.CloudStorageClient
}

func NewFileHandler(storageClient *storage.CloudStorageClient) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
	}
}

// UploadAttachment accepts one multipart image and returns its durable
// URL. The same allow-list and size cap the chat client enforces are
// enforced here, so a bypassing client cannot push disallowed files.
func (h *FileHandler) UploadAttachment(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("No file provided", err))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !entity.AllowedAttachmentType(contentType) {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File type %s is not allowed", contentType), nil))
	}
	if fileHeader.Size > entity.MaxAttachmentSize {
		return response.Error(c, errors.BadRequest("File exceeds the 10 MiB limit", nil))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer src.Close()

	userID := c.Get("uid").(string)
	url, err := h.storageClient.UploadFile(c.Request().Context(), src, contentType, "chat-attachments/"+userID)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to store file", err))
	}

	return response.Created(c, map[string]string{"url": url})
}
