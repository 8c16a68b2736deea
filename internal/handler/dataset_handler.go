package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/towerjump-backend-go/internal/ingest"
	"github.com/jengzang/towerjump-backend-go/internal/service"
	"github.com/jengzang/towerjump-backend-go/pkg/response"
)

// DatasetHandler handles dataset upload and inspection
type DatasetHandler struct {
	service   *service.DatasetService
	maxUpload int64
}

// NewDatasetHandler creates a new dataset handler; maxUpload is in bytes
func NewDatasetHandler(service *service.DatasetService, maxUpload int64) *DatasetHandler {
	return &DatasetHandler{service: service, maxUpload: maxUpload}
}

// Upload replaces the current dataset with an uploaded carrier CSV
// POST /api/upload
func (h *DatasetHandler) Upload(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		response.BadRequest(c, "No file uploaded")
		return
	}
	if header.Filename == "" {
		response.BadRequest(c, "No file selected")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		response.BadRequest(c, "File must be a CSV")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.service.Upload(header.Filename, file)
	if err != nil {
		if errors.Is(err, ingest.ErrMissingColumns) || errors.Is(err, ingest.ErrEmptyFile) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// Stats describes the current dataset
// GET /api/dataset/stats
func (h *DatasetHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, stats)
}
