package v1

import (
	"fmt"
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsUC domain.StatsUsecase
}

// NewStatsHandler registers reporting routes
func NewStatsHandler(r *gin.RouterGroup, statsUC domain.StatsUsecase) {
	handler := &StatsHandler{statsUC: statsUC}

	stats := r.Group("/stats")
	{
		stats.GET("", handler.GetStats)
		stats.GET("/export", handler.ExportApplications)
	}
}

// GetStats godoc
// @Summary      Application statistics
// @Description  Point-in-time rollup: counts by status and average days to review.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.StatsReport}
// @Router       /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	report, err := h.statsUC.GetStats(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Statistics computed", report)
}

// ExportApplications godoc
// @Summary      Export the application register
// @Description  Downloads all application records as xlsx (default) or csv.
// @Tags         stats
// @Produce      application/octet-stream
// @Param        format  query  string  false  "Export format (xlsx|csv)"
// @Success      200  {file}  binary
// @Failure      400  {object}  response.Response
// @Router       /stats/export [get]
func (h *StatsHandler) ExportApplications(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")

	data, filename, err := h.statsUC.ExportApplications(c, format)
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == "csv" {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, contentType, data)
}
