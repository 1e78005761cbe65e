package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/logger"
)

// CodeReviewFeedback is the fixed-shape result of an AI feedback request.
// Metrics are placeholder scores for now; the provider response feeds only
// the suggestions and the raw analysis text.
type CodeReviewFeedback struct {
	Metrics      map[string]int `json:"metrics"`
	Suggestions  []string       `json:"suggestions"`
	CodeAnalysis string         `json:"code_analysis"`
}

type CodeReviewService interface {
	GenerateFeedback(ctx context.Context, code, language string, projectID, userID uuid.UUID) (*CodeReviewFeedback, error)
	ReviewCode(ctx context.Context, code, language string) (string, error)
}

type codeReviewService struct {
	log *logger.Logger
	ai  AIClient
}

func NewCodeReviewService(log *logger.Logger, ai AIClient) CodeReviewService {
	return &codeReviewService{
		log: log.With("service", "CodeReviewService"),
		ai:  ai,
	}
}

func (s *codeReviewService) GenerateFeedback(ctx context.Context, code, language string, projectID, userID uuid.UUID) (*CodeReviewFeedback, error) {
	if code == "" || language == "" {
		return nil, fmt.Errorf("code and language are required")
	}
	if s.ai == nil {
		return nil, fmt.Errorf("ai provider not configured")
	}

	content, err := s.ai.Complete(ctx, ChatRequest{
		Messages: []ChatMessage{
			{
				Role:    "system",
				Content: "You are a code review assistant. Analyze the code and provide feedback.",
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Review this %s code:\n\n%s", language, code),
			},
		},
	})
	if err != nil {
		s.log.Error("AI feedback request failed", "projectID", projectID, "userID", userID, "error", err)
		return nil, fmt.Errorf("generate code review: %w", err)
	}

	return &CodeReviewFeedback{
		Metrics: map[string]int{
			"Code Quality":   8,
			"Best Practices": 7,
			"Performance":    9,
		},
		Suggestions:  strings.Split(content, "\n"),
		CodeAnalysis: content,
	}, nil
}

func (s *codeReviewService) ReviewCode(ctx context.Context, code, language string) (string, error) {
	if code == "" || language == "" {
		return "", fmt.Errorf("code and language are required")
	}
	if s.ai == nil {
		return "", fmt.Errorf("ai provider not configured")
	}

	prompt := fmt.Sprintf(`Please review this %s code and provide constructive feedback:

%s

Please provide feedback in the following format:
1. Code Quality Analysis
2. Potential Improvements
3. Best Practices
4. Security Considerations (if applicable)`, language, code)

	content, err := s.ai.Complete(ctx, ChatRequest{
		Messages: []ChatMessage{
			{
				Role:    "system",
				Content: "You are an experienced software engineer providing code review feedback.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", fmt.Errorf("generate code review: %w", err)
	}
	if content == "" {
		content = "No feedback available"
	}
	return content, nil
}
