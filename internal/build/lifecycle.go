package build

import "fmt"

// State is the position of a build in its lifecycle.
type State string

const (
	StateInit              State = "init"
	StateAssetsCopied      State = "assets_copied"
	StateContentLoaded     State = "content_loaded"
	StateFragmentsRendered State = "fragments_rendered"
	StateLayoutComposed    State = "layout_composed"
	StatePathsRewritten    State = "paths_rewritten"
	StateWritten           State = "written"
	StateDone              State = "done"
	StateAborted           State = "aborted"
)

// next lists the only forward transition from each non-terminal state.
var next = map[State]State{
	StateInit:              StateAssetsCopied,
	StateAssetsCopied:      StateContentLoaded,
	StateContentLoaded:     StateFragmentsRendered,
	StateFragmentsRendered: StateLayoutComposed,
	StateLayoutComposed:    StatePathsRewritten,
	StatePathsRewritten:    StateWritten,
	StateWritten:           StateDone,
}

// stageReaches maps a stage to the state its success enters. Stages not
// listed (prepare_output, verify_assets) leave the state unchanged.
var stageReaches = map[StageName]State{
	StageCopyAssets:      StateAssetsCopied,
	StageLoadContent:     StateContentLoaded,
	StageRenderFragments: StateFragmentsRendered,
	StageComposeLayout:   StateLayoutComposed,
	StageRewritePaths:    StatePathsRewritten,
	StageWriteOutput:     StateWritten,
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateDone || s == StateAborted }

// CanTransition reports whether from → to is legal. Any non-terminal state may abort.
func CanTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateAborted {
		return true
	}
	return next[from] == to
}

// Lifecycle tracks the state of one build and the path it took.
type Lifecycle struct {
	state State
	path  []State
}

// NewLifecycle starts at StateInit.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateInit, path: []State{StateInit}}
}

// State returns the current state.
func (l *Lifecycle) State() State { return l.state }

// Path returns every state visited, in order.
func (l *Lifecycle) Path() []State { return append([]State(nil), l.path...) }

// Advance moves to the given state, rejecting skipped or backward transitions.
func (l *Lifecycle) Advance(to State) error {
	if !CanTransition(l.state, to) {
		return fmt.Errorf("illegal build transition %s -> %s", l.state, to)
	}
	l.state = to
	l.path = append(l.path, to)
	return nil
}

// Abort moves to StateAborted unless the build already finished.
func (l *Lifecycle) Abort() {
	if l.state.Terminal() {
		return
	}
	l.state = StateAborted
	l.path = append(l.path, StateAborted)
}
