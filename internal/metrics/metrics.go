// Package metrics provides the Recorder interface and a noop implementation.
package metrics

import "time"

// Recorder is the interface for recording per-command metrics. kind is the
// binding kind ("key", "list", "set", "zset", "hash") and op the binding
// operation ("get", "append", ...).
type Recorder interface {
	RecordOp(kind, op string)
	RecordMiss(kind, op string)
	RecordLatency(kind, op string, d time.Duration)
	RecordError(kind, op string)
}

// Noop is a Recorder that discards all data.
type Noop struct{}

func (Noop) RecordOp(kind, op string)                       {}
func (Noop) RecordMiss(kind, op string)                     {}
func (Noop) RecordLatency(kind, op string, d time.Duration) {}
func (Noop) RecordError(kind, op string)                    {}
