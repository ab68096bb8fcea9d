package metrics

import (
	"testing"
	"time"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("write_output", time.Second)
	r.IncBuildOutcome("success")
	r.IncContactSubmission("invalid")
}
