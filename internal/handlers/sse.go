package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nextclass/nextclass-backend/internal/requestdata"
	"github.com/nextclass/nextclass-backend/internal/sse"
)

type SSEHandler struct {
	hub *sse.Hub
}

func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// GET /api/sse/stream
func (h *SSEHandler) Stream(c *gin.Context) {
	teacherID := requestdata.TeacherID(c.Request.Context())
	client := h.hub.NewClient(teacherID)
	defer h.hub.RemoveClient(client)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
