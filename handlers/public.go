package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"care-circle-api/statemachine"
)

// GetStateMachineInfo returns the full request lifecycle for informational
// purposes
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		info = append(info, gin.H{
			"from":  t.From,
			"to":    t.To,
			"actor": t.Actor,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{"completed", "cancelled"},
		"description":     "Care Request Lifecycle State Machine",
	})
}
