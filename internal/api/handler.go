package api

import (
	"errors"
	"net/http"

	"github.com/RishiKendai/hermes/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler holds dependencies for handlers
type Handler struct {
	candidates  *service.CandidateService
	tests       *service.TestService
	questions   *service.QuestionService
	assessments *service.AssessmentService
	dashboard   *service.DashboardService
}

// NewHandler creates a new handler
func NewHandler(
	candidates *service.CandidateService,
	tests *service.TestService,
	questions *service.QuestionService,
	assessments *service.AssessmentService,
	dashboard *service.DashboardService,
) *Handler {
	return &Handler{
		candidates:  candidates,
		tests:       tests,
		questions:   questions,
		assessments: assessments,
		dashboard:   dashboard,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// respondError maps service errors onto HTTP statuses. Every mutation route
// ends in either a success body or one of these, never a dangling request.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DUPLICATE_CANDIDATE"})
	default:
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: "UPSTREAM_ERROR"})
	}
}
