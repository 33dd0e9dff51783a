package loop

import (
	"context"
	"time"
)

// RequestRefresh turns frame requests from viewers into refresh signals.
// Requests arriving before the loop picks up the previous one merge into it
type RequestRefresh struct {
	c chan struct{}
}

func NewRequestRefresh() *RequestRefresh {
	return &RequestRefresh{c: make(chan struct{}, 1)}
}

func (r *RequestRefresh) Request() {
	select {
	case r.c <- struct{}{}:
	default:
	}
}

func (r *RequestRefresh) C() <-chan struct{} { return r.c }

// TickerRefresh simulates display refresh for headless runs.
// Channel is closed after frames signals, or on ctx cancel; frames 0 means no limit
func TickerRefresh(ctx context.Context, fps int, frames int) <-chan struct{} {
	c := make(chan struct{})
	go func() {
		defer close(c)
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		for sent := 0; frames == 0 || sent < frames; sent++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return
			case c <- struct{}{}:
			}
		}
	}()
	return c
}
