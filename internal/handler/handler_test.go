package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jengzang/towerjump-backend-go/internal/jobs"
	"github.com/jengzang/towerjump-backend-go/internal/service"
)

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{service.ErrNoDataset, http.StatusBadRequest},
		{fmt.Errorf("job x is running: %w", service.ErrNoResults), http.StatusBadRequest},
		{fmt.Errorf("analysis job x: %w", jobs.ErrJobNotFound), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
