package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextclass/nextclass-backend/internal/content"
)

type MaintenanceHandler struct{}

func NewMaintenanceHandler() *MaintenanceHandler {
	return &MaintenanceHandler{}
}

// POST /api/maintenance/sanitize
//
// Runs stored markdown through the full sanitizer pipeline. Used to repair
// content generated before a sanitizer fix shipped; safe to call repeatedly
// since every pass is idempotent.
func (h *MaintenanceHandler) Sanitize(c *gin.Context) {
	var body struct {
		Content    string `json:"content"`
		RenderHTML bool   `json:"render_html"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if body.Content == "" {
		RespondError(c, http.StatusBadRequest, "missing_content", errors.New("content is required"))
		return
	}

	cleaned := content.SanitizeGeneratedMarkdown(body.Content)
	resp := gin.H{"content": cleaned}
	if body.RenderHTML {
		resp["html"] = content.RenderSafeHTML(cleaned)
	}
	RespondOK(c, resp)
}
