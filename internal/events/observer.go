package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/glitchidea/sitebuilder/internal/build"
	"github.com/glitchidea/sitebuilder/internal/eventstore"
	"github.com/glitchidea/sitebuilder/internal/logfields"
)

// emitTimeout bounds the time spent delivering one build's events.
const emitTimeout = 5 * time.Second

type stageRecord struct {
	stage  build.StageName
	dur    time.Duration
	result build.StageResult
}

// Observer is a build.BuildObserver that emits one event per stage, one per
// broken asset and a final build event. Stage results are buffered until the
// build completes because only the report carries the build ID.
type Observer struct {
	sinks []Sink

	mu     sync.Mutex
	stages []stageRecord
}

// NewObserver returns an observer delivering to sinks. Delivery errors are logged.
func NewObserver(sinks ...Sink) *Observer {
	return &Observer{sinks: sinks}
}

func (o *Observer) OnStageStart(build.StageName) {}

func (o *Observer) OnStageComplete(stage build.StageName, d time.Duration, res build.StageResult) {
	o.mu.Lock()
	o.stages = append(o.stages, stageRecord{stage: stage, dur: d, result: res})
	o.mu.Unlock()
}

func (o *Observer) OnBuildComplete(r *build.BuildReport) {
	o.mu.Lock()
	stages := o.stages
	o.stages = nil
	o.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
	defer cancel()

	meta := map[string]string{"target": r.Target}
	var evs []eventstore.Event
	for _, s := range stages {
		e, err := eventstore.NewEvent(r.BuildID, eventstore.TypeStageCompleted, eventstore.StageCompleted{
			Stage:      string(s.stage),
			Result:     string(s.result),
			DurationMS: s.dur.Milliseconds(),
		})
		if err != nil {
			slog.Warn("Dropping stage event", logfields.Error(err))
			continue
		}
		e.EventMetadata = meta
		evs = append(evs, e)
	}
	for _, ref := range r.BrokenAssets {
		e, err := eventstore.NewEvent(r.BuildID, eventstore.TypeBrokenAsset, eventstore.BrokenAsset{
			Target: r.Target, Ref: ref, File: build.IndexFile,
		})
		if err != nil {
			continue
		}
		e.EventMetadata = meta
		evs = append(evs, e)
	}
	if e, err := eventstore.NewEvent(r.BuildID, eventstore.TypeBuildCompleted, completedPayload(r)); err == nil {
		e.EventMetadata = meta
		evs = append(evs, e)
	} else {
		slog.Warn("Dropping build event", logfields.Error(err))
	}

	for _, e := range evs {
		for _, s := range o.sinks {
			if err := s.Emit(ctx, e); err != nil {
				slog.Warn("Failed to deliver build event",
					logfields.BuildID(r.BuildID),
					"event_type", e.Type(),
					logfields.Error(err))
			}
		}
	}
}

func completedPayload(r *build.BuildReport) eventstore.BuildCompleted {
	errs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e.Error())
	}
	return eventstore.BuildCompleted{
		Target:       r.Target,
		Outcome:      string(r.Outcome),
		FinalState:   string(r.FinalState),
		StartedAt:    r.Start.UnixMilli(),
		DurationMS:   r.End.Sub(r.Start).Milliseconds(),
		Errors:       errs,
		Warnings:     len(r.Warnings),
		AssetFiles:   r.AssetFiles,
		ContentFiles: r.ContentFiles,
		BrokenAssets: r.BrokenAssets,
		Version:      r.Version,
	}
}
