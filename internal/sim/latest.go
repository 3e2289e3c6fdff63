package sim

import "sync/atomic"

// Latest is a single-slot cell holding the most recent flight snapshot.
// Publishing overwrites; readers only ever see the newest value.
type Latest struct {
	v      atomic.Pointer[Flight]
	notify chan struct{}
}

func NewLatest() *Latest {
	return &Latest{notify: make(chan struct{}, 1)}
}

func (l *Latest) Publish(f Flight) {
	l.v.Store(&f)
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Load returns the newest snapshot, or false if nothing was published yet.
func (l *Latest) Load() (Flight, bool) {
	p := l.v.Load()
	if p == nil {
		return Flight{}, false
	}
	return *p, true
}

// Updates fires at least once after any number of publishes.
func (l *Latest) Updates() <-chan struct{} {
	return l.notify
}
