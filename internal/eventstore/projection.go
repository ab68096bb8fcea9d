package eventstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// BuildSummary is the read model of one finished build.
type BuildSummary struct {
	BuildID      string        `json:"build_id"`
	Target       string        `json:"target"`
	Outcome      string        `json:"outcome"`
	FinalState   string        `json:"final_state"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  time.Time     `json:"completed_at"`
	Duration     time.Duration `json:"duration"`
	FailedStage  string        `json:"failed_stage,omitempty"`
	Errors       []string      `json:"errors,omitempty"`
	Warnings     int           `json:"warnings"`
	BrokenAssets int           `json:"broken_assets"`
}

// BuildHistoryProjection keeps the most recent build summaries, newest first.
type BuildHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	failed  map[string]string // buildID -> first fatal stage, until the build completes
	history []BuildSummary
	maxSize int
}

// NewBuildHistoryProjection creates a projection backed by store.
func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 50
	}
	return &BuildHistoryProjection{
		store:   store,
		failed:  make(map[string]string),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from every stored event.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = make(map[string]string)
	p.history = p.history[:0]
	for _, e := range events {
		p.applyLocked(e)
	}
	return nil
}

// Apply folds one event into the projection.
func (p *BuildHistoryProjection) Apply(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(e)
}

func (p *BuildHistoryProjection) applyLocked(e Event) {
	switch e.Type() {
	case TypeStageCompleted:
		var sc StageCompleted
		if Decode(e, &sc) != nil {
			return
		}
		if (sc.Result == "fatal" || sc.Result == "canceled") && p.failed[e.BuildID()] == "" {
			p.failed[e.BuildID()] = sc.Stage
		}
	case TypeBuildCompleted:
		var bc BuildCompleted
		if Decode(e, &bc) != nil {
			return
		}
		started := time.UnixMilli(bc.StartedAt)
		s := BuildSummary{
			BuildID:      e.BuildID(),
			Target:       bc.Target,
			Outcome:      bc.Outcome,
			FinalState:   bc.FinalState,
			StartedAt:    started,
			CompletedAt:  e.Timestamp(),
			Duration:     time.Duration(bc.DurationMS) * time.Millisecond,
			FailedStage:  p.failed[e.BuildID()],
			Errors:       bc.Errors,
			Warnings:     bc.Warnings,
			BrokenAssets: len(bc.BrokenAssets),
		}
		delete(p.failed, e.BuildID())
		p.history = append(p.history, s)
		sort.SliceStable(p.history, func(i, j int) bool {
			return p.history[i].StartedAt.After(p.history[j].StartedAt)
		})
		if len(p.history) > p.maxSize {
			p.history = p.history[:p.maxSize]
		}
	}
}

// History returns up to limit summaries, newest first. limit <= 0 returns all.
func (p *BuildHistoryProjection) History(limit int) []BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := len(p.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]BuildSummary, n)
	copy(out, p.history[:n])
	return out
}

// Last returns the most recent build, if any.
func (p *BuildHistoryProjection) Last() (BuildSummary, bool) {
	h := p.History(1)
	if len(h) == 0 {
		return BuildSummary{}, false
	}
	return h[0], true
}
