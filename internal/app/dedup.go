// internal/app/dedup.go
package app

import "time"

// ErrorDeduplicator suppresses repeats of the same error text within a window.
// Each distinct message is tracked separately. Not safe for concurrent use;
// the poll loop is its only caller.
type ErrorDeduplicator struct {
	window time.Duration
	sent   map[string]time.Time // message -> last successful delivery
}

func NewErrorDeduplicator(window time.Duration) *ErrorDeduplicator {
	return &ErrorDeduplicator{
		window: window,
		sent:   map[string]time.Time{},
	}
}

// ShouldNotify reports whether msg may be sent at now.
func (d *ErrorDeduplicator) ShouldNotify(msg string, now time.Time) bool {
	last, ok := d.sent[msg]
	return !ok || now.Sub(last) > d.window
}

// Record marks msg as sent at now and forgets messages whose window has passed.
func (d *ErrorDeduplicator) Record(msg string, now time.Time) {
	for m, at := range d.sent {
		if now.Sub(at) > d.window {
			delete(d.sent, m)
		}
	}
	d.sent[msg] = now
}
