package httpgin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkfest/desk-go/internal/hub"
	"github.com/inkfest/desk-go/internal/service"
)

const keepaliveInterval = 30 * time.Second

// @Summary  Live update stream
// @Description  Server-sent events. On connect the current revenue, sales
// @Description  and schedule views are pushed once as a snapshot, then every
// @Description  change follows in the order it was applied. Winner draws
// @Description  arrive as transient winnerDrawn events.
// @Produce  text/event-stream
// @Router   /api/stream [get]
func handleStream(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "streaming unsupported"})
			return
		}

		// Snapshot and subscription are captured atomically: nothing is
		// missed after the snapshot and nothing before it is replayed.
		snap, sub := svcs.Query.Watch()
		defer sub.Close()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.WriteHeader(http.StatusOK)

		c.SSEvent(hub.EventRevenue, snap.Revenue)
		c.SSEvent(hub.EventSales, snap.Sales)
		c.SSEvent(hub.EventSchedule, snap.Schedule)
		flusher.Flush()

		keepalive := time.NewTicker(keepaliveInterval)
		defer keepalive.Stop()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case <-keepalive.C:
				if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case ev, open := <-sub.Events():
				if !open {
					// Dropped by the hub for falling behind.
					return
				}
				c.SSEvent(ev.Name, ev.Data)
				flusher.Flush()
			}
		}
	}
}
