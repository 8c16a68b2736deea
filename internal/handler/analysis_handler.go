package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/towerjump-backend-go/internal/jobs"
	"github.com/jengzang/towerjump-backend-go/internal/models"
	"github.com/jengzang/towerjump-backend-go/internal/service"
	"github.com/jengzang/towerjump-backend-go/pkg/response"
)

// AnalysisHandler handles analysis jobs and their results
type AnalysisHandler struct {
	analysis *service.AnalysisService
	results  *service.ResultService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysis *service.AnalysisService, results *service.ResultService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, results: results}
}

// StartResponse is returned when an analysis job is queued
type StartResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Analyze starts an analysis of the current dataset
// POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	job, err := h.analysis.Start(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, StartResponse{
		JobID:   job.ID,
		Status:  job.Status,
		Message: "Analysis started. Use the job_id to check status.",
	})
}

// Status reports the state of one job
// GET /api/status/:job_id
func (h *AnalysisHandler) Status(c *gin.Context) {
	job, err := h.analysis.Status(c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, job)
}

// Results lists analyzed periods
// GET /api/results?filter=&sort_by=&sort_order=&page=&per_page=&job_id=
func (h *AnalysisHandler) Results(c *gin.Context) {
	var filter models.ResultFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.results.List(filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, page)
}

// Summary returns aggregate statistics of an analysis
// GET /api/summary?job_id=
func (h *AnalysisHandler) Summary(c *gin.Context) {
	summary, err := h.results.Summary(c.Query("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, summary)
}

// Export streams analysis results as a CSV attachment
// GET /api/export?job_id=
func (h *AnalysisHandler) Export(c *gin.Context) {
	// resolve before writing headers so errors still get a JSON body
	job, err := h.results.Job(c.Query("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename+`"`)
	c.Status(http.StatusOK)
	if err := h.results.Export(job.ID, c.Writer); err != nil {
		c.Error(err)
	}
}

// writeError maps service errors to response envelopes
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoDataset), errors.Is(err, service.ErrNoResults):
		response.BadRequest(c, err.Error())
	case errors.Is(err, jobs.ErrJobNotFound):
		response.NotFound(c, "Job not found")
	default:
		response.InternalError(c, err.Error())
	}
}
