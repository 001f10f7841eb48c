package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"internhub/internal/errors"
	"internhub/internal/model"
	"internhub/internal/repository"
	"internhub/internal/service"
)

// InternshipHandler handles internship endpoints.
type InternshipHandler struct {
	internshipService service.InternshipService
}

// NewInternshipHandler creates a new internship handler.
func NewInternshipHandler(internshipService service.InternshipService) *InternshipHandler {
	return &InternshipHandler{internshipService: internshipService}
}

// InternshipRequest represents a create or update payload. Any owner or
// organization field a client sends is not modeled here and is dropped at
// bind time.
type InternshipRequest struct {
	Title               string    `json:"title" validate:"required"`
	Description         string    `json:"description" validate:"required"`
	Sector              string    `json:"sector"`
	LocationCity        string    `json:"location_city"`
	LocationState       string    `json:"location_state"`
	Skills              []string  `json:"skills"`
	EducationLevel      string    `json:"education_level"`
	StipendAmount       string    `json:"stipend_amount"`
	StipendCurrency     string    `json:"stipend_currency"`
	Duration            string    `json:"duration"`
	PositionsTotal      int       `json:"positions_total" validate:"gte=0"`
	ApplicationDeadline time.Time `json:"application_deadline"`
	StartDate           time.Time `json:"start_date"`
}

// StatusRequest represents a lifecycle transition payload.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active filled expired withdrawn"`
}

// OwnedListResponse is the shape of the ownership-scoped listing.
type OwnedListResponse struct {
	Internships []model.Internship `json:"internships"`
	Total       int                `json:"total"`
}

func (r *InternshipRequest) toInput() (service.InternshipInput, error) {
	amount := decimal.Zero
	if r.StipendAmount != "" {
		parsed, err := decimal.NewFromString(r.StipendAmount)
		if err != nil {
			return service.InternshipInput{}, err
		}
		amount = parsed
	}
	return service.InternshipInput{
		Title:               r.Title,
		Description:         r.Description,
		Sector:              r.Sector,
		LocationCity:        r.LocationCity,
		LocationState:       r.LocationState,
		Skills:              r.Skills,
		EducationLevel:      r.EducationLevel,
		StipendAmount:       amount,
		StipendCurrency:     r.StipendCurrency,
		Duration:            r.Duration,
		PositionsTotal:      r.PositionsTotal,
		ApplicationDeadline: r.ApplicationDeadline,
		StartDate:           r.StartDate,
	}, nil
}

// ListPublic godoc
// @Summary List all internships (public browse surface)
// @Tags internships
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param sector query string false "Sector filter"
// @Param status query string false "Status filter"
// @Success 200 {object} service.PublicListResult
// @Failure 503 {object} errors.ErrorResponse
// @Router /internships [get]
func (h *InternshipHandler) ListPublic(c echo.Context) error {
	opts := repository.ListOptions{
		Sector: c.QueryParam("sector"),
		Status: model.InternshipStatus(c.QueryParam("status")),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		opts.Page = page
	}
	if size, err := strconv.Atoi(c.QueryParam("page_size")); err == nil {
		opts.PageSize = size
	}

	result, err := h.internshipService.ListPublic(c.Request().Context(), opts)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// ListOwned godoc
// @Summary List the authenticated organization's own internships
// @Tags internships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OwnedListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /internships/my-internships [get]
func (h *InternshipHandler) ListOwned(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	internships, err := h.internshipService.ListOwned(c.Request().Context(), principal)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, OwnedListResponse{
		Internships: internships,
		Total:       len(internships),
	})
}

// Get godoc
// @Summary Get a single internship by id
// @Tags internships
// @Produce json
// @Param id path string true "Internship ID"
// @Success 200 {object} model.Internship
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /internships/{id} [get]
func (h *InternshipHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: "invalid internship id", Code: "INVALID_UUID"})
	}

	internship, err := h.internshipService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, internship)
}

// Create godoc
// @Summary Create an internship posting
// @Tags internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InternshipRequest true "Internship data"
// @Success 201 {object} model.Internship
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /internships [post]
func (h *InternshipHandler) Create(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req InternshipRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: "invalid request body", Code: "INVALID_REQUEST"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: err.Error(), Code: "VALIDATION_ERROR"})
	}

	input, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: "invalid stipend_amount", Code: "VALIDATION_ERROR"})
	}

	internship, err := h.internshipService.Create(c.Request().Context(), principal, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, internship)
}

// Update godoc
// @Summary Update an internship posting (owner or admin)
// @Tags internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Internship ID"
// @Param request body InternshipRequest true "Internship data"
// @Success 200 {object} model.Internship
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /internships/{id} [put]
func (h *InternshipHandler) Update(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: "invalid internship id", Code: "INVALID_UUID"})
	}

	var req InternshipRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: "invalid request body", Code: "INVALID_REQUEST"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: err.Error(), Code: "VALIDATION_ERROR"})
	}

	input, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: "invalid stipend_amount", Code: "VALIDATION_ERROR"})
	}

	internship, err := h.internshipService.Update(c.Request().Context(), principal, id, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, internship)
}

// UpdateStatus godoc
// @Summary Transition an internship's lifecycle status (owner or admin)
// @Tags internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Internship ID"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} model.Internship
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /internships/{id}/status [patch]
func (h *InternshipHandler) UpdateStatus(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: "invalid internship id", Code: "INVALID_UUID"})
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: "invalid request body", Code: "INVALID_REQUEST"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Message: err.Error(), Code: "VALIDATION_ERROR"})
	}

	internship, err := h.internshipService.UpdateStatus(c.Request().Context(), principal, id, model.InternshipStatus(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, internship)
}
