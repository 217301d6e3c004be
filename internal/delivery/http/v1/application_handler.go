package v1

import (
	"net/http"
	"strconv"
	"time"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(r *gin.RouterGroup, write *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := r.Group("/applications")
	{
		applications.GET("/eligibility", handler.CheckEligibility)
		applications.GET("/:id", handler.GetApplication)
	}

	// Mutating routes carry the stricter rate limit
	writes := write.Group("/applications")
	{
		writes.POST("", handler.CreateApplication)
		writes.PATCH("/:id", handler.UpdateApplication)
		writes.PATCH("/:id/review", handler.ReviewApplication)
		writes.PATCH("/:id/priority", handler.SetPriority)
		writes.DELETE("/:id", handler.SoftDeleteApplication)
	}

	r.GET("/professionals/:id/applications", handler.ListByProfessional)
	r.GET("/job-offers/:id/applications", handler.ListByJobOffer)
}

// CreateApplicationRequest is the request payload for creating an application
type CreateApplicationRequest struct {
	ProfessionalID   string    `json:"professional_id" binding:"required"`
	JobOfferID       string    `json:"job_offer_id" binding:"required"`
	CoverLetter      string    `json:"cover_letter"`
	Motivation       string    `json:"motivation"`
	SalaryAmount     float64   `json:"salary_amount"`
	SalaryCurrency   string    `json:"salary_currency" binding:"required"`
	SalaryNegotiable bool      `json:"salary_negotiable"`
	AvailabilityDate time.Time `json:"availability_date" binding:"required"`
	Skills           []string  `json:"skills"`
	Notes            string    `json:"notes"`
	Priority         *string   `json:"priority"`
}

// ReviewApplicationRequest is the request payload for reviewing an application
type ReviewApplicationRequest struct {
	Decision   string  `json:"decision" binding:"required"`
	ReviewerID *string `json:"reviewer_id"`
	Notes      *string `json:"notes"`
}

// SetPriorityRequest is the request payload for changing priority
type SetPriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

// UpdateApplicationRequest is the pending-only edit payload
type UpdateApplicationRequest struct {
	CoverLetter      *string    `json:"cover_letter"`
	Motivation       *string    `json:"motivation"`
	SalaryAmount     *float64   `json:"salary_amount"`
	SalaryCurrency   *string    `json:"salary_currency"`
	SalaryNegotiable *bool      `json:"salary_negotiable"`
	AvailabilityDate *time.Time `json:"availability_date"`
	Skills           *[]string  `json:"skills"`
	Notes            *string    `json:"notes"`
	Priority         *string    `json:"priority"`
}

// CheckEligibility godoc
// @Summary      Check application eligibility
// @Description  Pre-flight check whether a professional can apply to a job offer. No side effects.
// @Tags         applications
// @Produce      json
// @Param        professional_id  query  string  true  "Professional ID"
// @Param        job_offer_id     query  string  true  "Job Offer ID"
// @Success      200  {object}  response.Response{data=domain.EligibilityResult}
// @Failure      400  {object}  response.Response
// @Router       /applications/eligibility [get]
func (h *ApplicationHandler) CheckEligibility(c *gin.Context) {
	professionalID := c.Query("professional_id")
	jobOfferID := c.Query("job_offer_id")

	result, err := h.applicationUC.CheckEligibility(c, professionalID, jobOfferID, time.Now().UTC())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Eligibility evaluated", result)
}

// CreateApplication godoc
// @Summary      Create an application
// @Description  Submit an application for a job offer. Denied when the pair already applied or the monthly quota is reached.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body  CreateApplicationRequest  true  "Application draft"
// @Success      201  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /applications [post]
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	draft := domain.ApplicationDraft{
		ProfessionalID:   req.ProfessionalID,
		JobOfferID:       req.JobOfferID,
		CoverLetter:      req.CoverLetter,
		Motivation:       req.Motivation,
		SalaryAmount:     req.SalaryAmount,
		SalaryCurrency:   req.SalaryCurrency,
		SalaryNegotiable: req.SalaryNegotiable,
		AvailabilityDate: req.AvailabilityDate,
		Skills:           req.Skills,
		Notes:            req.Notes,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		draft.Priority = &p
	}

	app, err := h.applicationUC.Create(c, draft)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// GetApplication godoc
// @Summary      Get an application
// @Tags         applications
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	app, err := h.applicationUC.GetByID(c, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// ReviewApplication godoc
// @Summary      Review an application
// @Description  Accept or reject a pending application. Sets reviewed_at exactly once.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Application ID"
// @Param        body  body  ReviewApplicationRequest  true  "Review decision"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id}/review [patch]
func (h *ApplicationHandler) ReviewApplication(c *gin.Context) {
	var req ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	decision, err := domain.ParseStatus(req.Decision)
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.applicationUC.Review(c, c.Param("id"), decision, req.ReviewerID, req.Notes)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application reviewed", app)
}

// SetPriority godoc
// @Summary      Set application priority
// @Description  Change priority in any lifecycle state. Never touches review fields.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "Application ID"
// @Param        body  body  SetPriorityRequest  true  "New priority"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/priority [patch]
func (h *ApplicationHandler) SetPriority(c *gin.Context) {
	var req SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.applicationUC.SetPriority(c, c.Param("id"), domain.Priority(req.Priority))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Priority updated", app)
}

// UpdateApplication godoc
// @Summary      Edit a pending application
// @Description  Update content fields while the application is pending. Reviewed applications reject edits.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Application ID"
// @Param        body  body  UpdateApplicationRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id} [patch]
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	patch := domain.ApplicationPatch{
		CoverLetter:      req.CoverLetter,
		Motivation:       req.Motivation,
		SalaryAmount:     req.SalaryAmount,
		SalaryCurrency:   req.SalaryCurrency,
		SalaryNegotiable: req.SalaryNegotiable,
		AvailabilityDate: req.AvailabilityDate,
		Skills:           req.Skills,
		Notes:            req.Notes,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}

	app, err := h.applicationUC.Update(c, c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application updated", app)
}

// SoftDeleteApplication godoc
// @Summary      Withdraw a pending application
// @Description  Soft-deletes the record. It disappears from listings but keeps counting toward quota and aggregates.
// @Tags         applications
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id} [delete]
func (h *ApplicationHandler) SoftDeleteApplication(c *gin.Context) {
	if err := h.applicationUC.SoftDelete(c, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application withdrawn", nil)
}

// ListByProfessional godoc
// @Summary      List a professional's applications
// @Tags         applications
// @Produce      json
// @Param        id         path   string  true   "Professional ID"
// @Param        status     query  string  false  "Status filter (pending|accepted|rejected)"
// @Param        page       query  int     false  "Page (1-based)"
// @Param        page_size  query  int     false  "Page size"
// @Success      200  {object}  response.Response{data=response.Paginated}
// @Router       /professionals/{id}/applications [get]
func (h *ApplicationHandler) ListByProfessional(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.Error(err)
		return
	}

	items, total, err := h.applicationUC.ListByProfessional(c, c.Param("id"), filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", response.Paginated{
		Items: items, TotalCount: total, Page: filter.Page, PageSize: filter.PageSize,
	})
}

// ListByJobOffer godoc
// @Summary      List a job offer's applications
// @Tags         applications
// @Produce      json
// @Param        id         path   string  true   "Job Offer ID"
// @Param        status     query  string  false  "Status filter (pending|accepted|rejected)"
// @Param        page       query  int     false  "Page (1-based)"
// @Param        page_size  query  int     false  "Page size"
// @Success      200  {object}  response.Response{data=response.Paginated}
// @Router       /job-offers/{id}/applications [get]
func (h *ApplicationHandler) ListByJobOffer(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.Error(err)
		return
	}

	items, total, err := h.applicationUC.ListByJobOffer(c, c.Param("id"), filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", response.Paginated{
		Items: items, TotalCount: total, Page: filter.Page, PageSize: filter.PageSize,
	})
}

func parseListFilter(c *gin.Context) (domain.ListFilter, error) {
	filter := domain.ListFilter{Page: 1, PageSize: 20}

	if s := c.Query("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			return filter, apperror.BadRequest(err.Error())
		}
		filter.Status = &status
	}
	if p := c.Query("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			return filter, apperror.BadRequest("Invalid page")
		}
		filter.Page = page
	}
	if ps := c.Query("page_size"); ps != "" {
		pageSize, err := strconv.Atoi(ps)
		if err != nil || pageSize < 1 {
			return filter, apperror.BadRequest("Invalid page_size")
		}
		filter.PageSize = pageSize
	}
	return filter, nil
}
