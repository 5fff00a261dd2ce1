package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"tablebook/internal/notify"
)

// StreamEvents holds the connection open and pushes the caller's
// notifications as server-sent events. Delivery is at-most-once; events
// emitted while the user is not connected are dropped.
func StreamEvents(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /events"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		events, cancel := hub.Subscribe(caller.ID.Hex())
		defer cancel()

		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case event, ok := <-events:
				if !ok {
					return false
				}
				c.SSEvent(event.Type, event.Payload)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
