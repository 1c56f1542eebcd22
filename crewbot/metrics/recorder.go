// Package metrics records bot activity. The bot runs with NoopRecorder
// unless the API server is enabled.
package metrics

import "time"

// Recorder receives observations from the store, the interaction wrappers
// and the status refresher. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveFlush(backend string, d time.Duration, success bool)
	ObserveInteraction(kind, name string, d time.Duration, outcome string)
	SetActiveShifts(onDuty, onBreak int)
	ObserveRefresh(d time.Duration, communities int, failed int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveFlush(string, time.Duration, bool)                 {}
func (NoopRecorder) ObserveInteraction(string, string, time.Duration, string) {}
func (NoopRecorder) SetActiveShifts(int, int)                                 {}
func (NoopRecorder) ObserveRefresh(time.Duration, int, int)                   {}

// FlushHook adapts r to the store's flush hook signature.
func FlushHook(r Recorder) func(backend string, took time.Duration, err error) {
	return func(backend string, took time.Duration, err error) {
		r.ObserveFlush(backend, took, err == nil)
	}
}
