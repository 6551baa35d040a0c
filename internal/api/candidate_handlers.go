package api

import (
	"net/http"

	"github.com/RishiKendai/hermes/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCandidates(c *gin.Context) {
	candidates, err := h.candidates.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

func (h *Handler) AddCandidate(c *gin.Context) {
	var req models.Candidate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if err := h.candidates.Add(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "candidate created"})
}

type importRequest struct {
	Candidates []models.Candidate `json:"candidates" binding:"required"`
}

func (h *Handler) ImportCandidates(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	report, err := h.candidates.Import(c.Request.Context(), req.Candidates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type assignRequest struct {
	AssessmentTitle string   `json:"assessmentTitle" binding:"required"`
	TestIDs         []string `json:"testIds" binding:"required"`
	ScheduledDate   string   `json:"scheduledDate"`
	ExpiryDate      string   `json:"expiryDate"`
}

func (h *Handler) AssignTests(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	ctx := c.Request.Context()
	library, err := h.tests.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	wanted := make(map[string]struct{}, len(req.TestIDs))
	for _, id := range req.TestIDs {
		wanted[id] = struct{}{}
	}
	selected := make([]models.Test, 0, len(req.TestIDs))
	for _, t := range library {
		if _, ok := wanted[t.ID]; ok {
			selected = append(selected, t)
		}
	}

	err = h.candidates.AssignTests(ctx, c.Param("id"), req.AssessmentTitle, selected, req.ScheduledDate, req.ExpiryDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tests assigned"})
}

type inviteRequest struct {
	CandidateIDs []string `json:"candidateIds" binding:"required"`
	Subject      string   `json:"subject" binding:"required"`
	Message      string   `json:"message" binding:"required"`
}

func (h *Handler) InviteCandidates(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	batchID, err := h.candidates.Invite(c.Request.Context(), req.CandidateIDs, req.Subject, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"batchId": batchID})
}

func (h *Handler) InviteBatchStatus(c *gin.Context) {
	step, err := h.candidates.InviteStatus(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batchId": c.Param("batchId"), "step": step})
}

func (h *Handler) RemoveCandidate(c *gin.Context) {
	if err := h.candidates.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "candidate removed"})
}
