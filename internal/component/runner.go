package component

import (
	"context"
	"runtime"
	"time"

	"github.com/neosb/zipline/pkg/zipline/v1/component"
	"github.com/neosb/zipline/pkg/zipline/v1/plugin"
)

// Run opens c, then drives it to completion: a dedicated work unit repeatedly
// calls DoWork until it reports done or returns an error, while a second
// unit reports liveness to the host on every tick of heartbeatInterval. Run
// blocks until both finish.
//
// If ctx is cancelled before DoWork reports done, Run calls SignalDone on c
// so downstream consumers still see an orderly end of stream rather than a
// silently abandoned component.
func Run(ctx context.Context, c plugin.Component, handle component.HostHandle, heartbeatInterval time.Duration, strategy Strategy) error {
	if err := c.Open(ctx, handle); err != nil {
		return err
	}

	heartbeatCtx, stopHeartbeat := context.WithCancel(context.Background())
	defer stopHeartbeat()

	strategy.Spawn(func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = handle.Heartbeat(ctx)
			case <-heartbeatCtx.Done():
				return
			}
		}
	})

	var workErr error
	for {
		done, err := c.DoWork(ctx)
		if err != nil {
			workErr = err
			break
		}
		if done {
			break
		}
		select {
		case <-ctx.Done():
			workErr = ctx.Err()
		default:
			// Yield between steps so the heartbeat unit still gets to run
			// when DoWork returns without ever blocking.
			runtime.Gosched()
		}
		if workErr != nil {
			break
		}
	}

	if workErr != nil {
		_ = c.SignalDone(context.Background())
	}

	stopHeartbeat()
	strategy.Join()
	return workErr
}
