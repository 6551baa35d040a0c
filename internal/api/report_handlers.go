package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListQuestionBank(c *gin.Context) {
	questions, err := h.questions.ListBank(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *Handler) ListAssessments(c *gin.Context) {
	refresh := c.Query("refresh") == "true"
	assessments, err := h.assessments.List(c.Request.Context(), refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": assessments})
}

func (h *Handler) Dashboard(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
