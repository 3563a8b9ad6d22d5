package playback

import (
	"sync"
	"time"
)

// Timer starts recurring callbacks.
type Timer interface {
	// Every calls fn every d until stop is called. stop may be called
	// more than once and from within fn.
	Every(d time.Duration, fn func()) (stop func())
}

// Ticker is a Timer backed by time.Ticker. Each timer runs fn on its own
// goroutine, one call at a time.
type Ticker struct{}

func (Ticker) Every(d time.Duration, fn func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return sync.OnceFunc(func() {
		t.Stop()
		close(done)
	})
}
