package monitor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/smilemakc/jobtree/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"connected_clients": s.hub.clientCount(),
	})
}

// handleExecutionHistory returns the mirrored event timeline for one
// workflow execution. 503s if store wasn't configured, since there is
// nothing to query.
func (s *Server) handleExecutionHistory(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history store not configured"})
		return
	}
	workflowID := c.Param("workflowID")
	rows, err := s.repo.FindByWorkflowID(c.Request.Context(), workflowID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow_id": workflowID, "events": rows})
}

// handleWebSocket upgrades to a live ExecutionEvent feed, optionally
// scoped to a single workflow via the ?workflow_id= query parameter.
func (s *Server) handleWebSocket(c *gin.Context) {
	workflowID := c.Query("workflow_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("monitor: websocket upgrade failed", "error", err)
		}
		return
	}

	client := newWSClient(conn, workflowID)
	s.hub.register <- client

	go client.writePump()
	go s.hub.readPump(client)

	if s.logger != nil {
		s.logger.Info("monitor: websocket client connected", "client_id", uuid.NewString(), "workflow_id", workflowID)
	}
}
