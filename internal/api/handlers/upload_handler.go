// internal/api/handlers/upload_handler.go
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiranalabs/restock/internal/service"
)

// maxUploadBytes caps one sales sheet at 20 MB.
const maxUploadBytes = 20 << 20

type UploadHandler struct {
	service *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// UploadSales accepts a CSV or XLSX sales sheet as multipart form data
// under the "file" field.
func (h *UploadHandler) UploadSales(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing file field in multipart form")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file exceeds the 20MB upload limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not open uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	report, err := h.service.Process(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListUploads returns metadata for the archived upload files. Empty when
// no object store is configured.
func (h *UploadHandler) ListUploads(c *gin.Context) {
	uploads, err := h.service.ListArchived(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": uploads, "count": len(uploads)})
}
