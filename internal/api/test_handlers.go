package api

import (
	"net/http"
	"strings"

	"github.com/RishiKendai/hermes/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTests(c *gin.Context) {
	tests, err := h.tests.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	// Restricted callers only see tests tagged with their own name.
	caller := CallerFrom(c)
	if caller.Role == models.RoleRestricted {
		owned := make([]models.Test, 0, len(tests))
		for _, t := range tests {
			if t.OwnedBy(caller.FullName) {
				owned = append(owned, t)
			}
		}
		tests = owned
	}
	c.JSON(http.StatusOK, gin.H{"tests": tests})
}

func (h *Handler) CreateTest(c *gin.Context) {
	var req models.Test
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if err := h.tests.Create(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "test created"})
}

func (h *Handler) UpdateTest(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if err := h.tests.Update(c.Request.Context(), c.Param("id"), fields); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "test updated"})
}

func (h *Handler) DeleteTest(c *gin.Context) {
	if err := h.tests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "test deleted"})
}

type recommendRequest struct {
	Skills []string `json:"skills" binding:"required"`
}

// RecommendTests returns tests visible to the caller that match the given
// candidate skills. An empty result is a valid state the console renders as
// "no tests available", not an error.
func (h *Handler) RecommendTests(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	res, err := h.tests.Recommend(c.Request.Context(), req.Skills, CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tests":       res.Visible,
		"preselected": res.Preselected,
	})
}

func (h *Handler) SearchTests(c *gin.Context) {
	query := c.Query("q")
	var selected []string
	if raw := c.Query("selected"); raw != "" {
		selected = strings.Split(raw, ",")
	}
	tests, err := h.tests.Search(c.Request.Context(), query, selected)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tests": tests})
}
