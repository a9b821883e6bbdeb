package driver

import "time"

// Stage describes a phase of lowering one program.
type Stage string

const (
	// StageFingerprint hashes the program snapshot for the cache.
	StageFingerprint Stage = "fingerprint"
	// StageLower lowers the program's modules.
	StageLower Stage = "lower"
	// StageEncode serializes the lowered modules.
	StageEncode Stage = "encode"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusCached indicates the result came from the snapshot cache.
	StatusCached Status = "cached"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for one program (or for the whole run when Name
// is empty).
type Event struct {
	Name    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. It is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func report(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
