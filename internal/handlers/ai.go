package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/requestdata"
	"github.com/yungbote/insightpath-backend/internal/services"
)

type AIHandler struct {
	codeReviewService services.CodeReviewService
}

func NewAIHandler(codeReviewService services.CodeReviewService) *AIHandler {
	return &AIHandler{codeReviewService: codeReviewService}
}

// Feedback returns the fixed-shape review object for a project's code.
func (ah *AIHandler) Feedback(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req struct {
		Code      string    `json:"code"`
		Language  string    `json:"language"`
		ProjectID uuid.UUID `json:"project_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Code == "" || req.Language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and language are required"})
		return
	}
	result, err := ah.codeReviewService.GenerateFeedback(c.Request.Context(), req.Code, req.Language, req.ProjectID, rd.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Review returns the free-text structured review used by the code review
// panel.
func (ah *AIHandler) Review(c *gin.Context) {
	var req struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Code == "" || req.Language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code and language are required"})
		return
	}
	feedback, err := ah.codeReviewService.ReviewCode(c.Request.Context(), req.Code, req.Language)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}
