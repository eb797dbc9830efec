package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datasure/profiling-agent/internal/agent"
	errx "github.com/datasure/profiling-agent/internal/core/error"
	logx "github.com/datasure/profiling-agent/pkg/logger"
)

// RunAgentRequest is the wire shape of one turn. Field names follow the
// existing client contract, hence the mixed casing of userText.
type RunAgentRequest struct {
	SessionID string         `json:"session_id"`
	UserText  string         `json:"userText"`
	Context   map[string]any `json:"context"`
}

// RunAgent handles POST /run_agent: one conversational turn per request.
//
// Conversation-level problems (no intent, missing parameters, handler
// failures) come back as a normal response body with an explanatory message.
// Only an unusable session store surfaces as a transport error, since no
// state can be loaded or saved for the turn.
func RunAgent(orch *agent.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RunAgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}

		resp, err := orch.Turn(c.Request.Context(), agent.TurnRequest{
			SessionID: req.SessionID,
			UserText:  req.UserText,
			Context:   req.Context,
		})
		if err != nil {
			logx.Error().Err(err).Str("session_id", req.SessionID).Msg("Turn failed")
			status := errx.StatusOf(err, http.StatusInternalServerError)
			c.JSON(status, gin.H{"error": errx.SessionStoreErrorMessage})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "profiling agent is running"})
}
