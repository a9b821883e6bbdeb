package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a heartbeat event every interval so a hung run can be
// told apart from a slow one: heartbeats keep coming while span ends stop.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts beating into tracer. It returns nil when tracer is
// disabled or interval is not positive; Stop accepts nil.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case at := <-ticker.C:
				tracer.Emit(&Event{
					Time:   at,
					Seq:    seq.Add(1),
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(n),
				})
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

// Stop ends the heartbeat and waits for its goroutine. It is idempotent.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
