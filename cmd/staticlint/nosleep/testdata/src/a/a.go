package a

import (
	"context"
	"time"
)

func poll(ctx context.Context) {
	for {
		time.Sleep(time.Second) // want "time.Sleep cannot be interrupted"
		if ctx.Err() != nil {
			return
		}
	}
}

func wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

type sleeper struct{}

func (sleeper) Sleep(time.Duration) {}

func local() {
	var s sleeper
	s.Sleep(time.Millisecond)
}
