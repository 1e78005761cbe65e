package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/requestdata"
	"github.com/yungbote/insightpath-backend/internal/services"
	"github.com/yungbote/insightpath-backend/internal/sse"
)

type SSEHandler struct {
	hub *sse.SSEHub
}

func NewSSEHandler(hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream opens the event stream. Every caller is subscribed to their
// personal notification channel; project channels come from the optional
// repeated "project" query param.
func (sh *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	client := sh.hub.NewSSEClient(rd.UserID)
	sh.hub.AddChannel(client, services.NotificationChannel(rd.UserID))
	for _, raw := range c.QueryArray("project") {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		sh.hub.AddChannel(client, services.ProjectChannel(projectID))
	}

	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
