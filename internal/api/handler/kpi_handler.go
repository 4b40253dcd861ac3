package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentpulse/performance-api/internal/api/metrics"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

type KPIHandler struct {
	service ports.KPIService
}

func NewKPIHandler(service ports.KPIService) *KPIHandler {
	return &KPIHandler{service: service}
}

// List returns every KPI definition.
//
// @Summary      List KPIs
// @Tags         kpi
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.KPI
// @Router       /api/kpi [get]
func (h *KPIHandler) List(c echo.Context) error {
	kpis, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if kpis == nil {
		kpis = []*domain.KPI{}
	}
	return c.JSON(http.StatusOK, kpis)
}

// Create defines a new KPI.
//
// @Summary      Create KPI
// @Tags         kpi
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createKPIRequest  true  "KPI"
// @Success      201   {object}  domain.KPI
// @Failure      422   {object}  errorResponse
// @Router       /api/kpi [post]
func (h *KPIHandler) Create(c echo.Context) error {
	var req createKPIRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in := ports.CreateKPIInput{
		Title:      req.Title,
		Target:     req.Target,
		Department: req.Department,
	}
	if req.Weightage != nil {
		in.Weightage = *req.Weightage
	}

	kpi, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, kpi)
}

// Evaluate scores an employee against a KPI.
//
// @Summary      Evaluate KPI
// @Tags         kpi
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      evaluateKPIRequest  true  "Achieved value"
// @Success      201   {object}  domain.KPIResult
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/kpi/evaluate [post]
func (h *KPIHandler) Evaluate(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req evaluateKPIRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.Evaluate(c.Request().Context(), caller, ports.EvaluateKPIInput{
		KPIID:         req.KPIID,
		EmployeeID:    req.EmployeeID,
		AchievedValue: *req.AchievedValue,
	})
	if err != nil {
		return err
	}
	metrics.KPIEvaluationsTotal.WithLabelValues(string(result.Status)).Inc()
	return c.JSON(http.StatusCreated, result)
}
