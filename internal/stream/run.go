package stream

import (
	"context"
	"time"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/logger"
)

// Run ticks the controller with the latest position from src every interval
// until ctx is cancelled. Ticks before src has reported a position are
// skipped, as are repeats of the last position ticked.
func (c *Controller) Run(ctx context.Context, interval time.Duration, src PositionSource) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last Position
	ticked := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pos, ok := src.Position()
			if !ok || (ticked && pos == last) {
				continue
			}
			last, ticked = pos, true

			result, err := c.Tick(pos)
			if err != nil {
				logger.Error("Stream tick failed", "position", pos.String(), "error", err)
				continue
			}
			if result.Trigger != TriggerNone {
				logger.Debug("Stream tick crossed", "trigger", result.Trigger.String(), "chunk", result.ChunkID)
			}
		}
	}
}
