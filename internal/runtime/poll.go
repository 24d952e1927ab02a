package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daisyflow/daisy/pkg/domain"
)

// Video tasks resolve asynchronously: the provider returns a task id and the
// engine polls until a terminal status. A status that claims success without
// an output URL is treated as still running, never as done.

func successStatus(status string) bool {
	switch strings.ToLower(status) {
	case "completed", "succeeded", "done":
		return true
	}
	return false
}

func failureStatus(status string) bool {
	switch strings.ToLower(status) {
	case "failed", "error":
		return true
	}
	return false
}

// pollVideoTask drives the polling loop for one submitted task, writing each
// progress report into the node as it arrives.
func (d *Dispatcher) pollVideoTask(ctx context.Context, node domain.Node, cred, taskID string, logger *slog.Logger) *domain.ExecError {
	timer := time.NewTimer(d.pollDelay)
	defer timer.Stop()

	for attempt := 1; attempt <= d.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return domain.NewExecError(domain.ErrConnectivity, "video generation canceled", ctx.Err())
		case <-timer.C:
		}

		status, err := d.videos.VideoStatus(ctx, cred, taskID)
		if err != nil {
			// Transient status-poll failures do not abandon the task.
			logger.Warn("video status poll failed", "task", taskID, "attempt", attempt, "err", err)
			timer.Reset(d.pollInterval)
			continue
		}

		switch {
		case failureStatus(status.Status):
			msg := status.Error
			if msg == "" {
				msg = "Video generation failed"
			}
			return domain.NewExecError(domain.ErrRemote, msg, nil)
		case successStatus(status.Status) && status.OutputURL != "":
			logger.Info("video task completed", "task", taskID, "attempts", attempt)
			d.patchNode(ctx, node, map[string]any{
				"videoUrl": status.OutputURL,
				"progress": 100,
				"error":    "",
			})
			return nil
		default:
			if status.Progress > 0 {
				d.patchNode(ctx, node, map[string]any{"progress": status.Progress})
			}
			timer.Reset(d.pollInterval)
		}
	}

	return domain.NewExecError(domain.ErrTimeout,
		fmt.Sprintf("Video generation timed out after %d status checks. The task may still complete; check task %s later.", d.maxPolls, taskID), nil)
}
