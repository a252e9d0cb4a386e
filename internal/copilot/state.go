// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package copilot

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

// ProgressFn is called on every state transition with the new state and a
// short description of the work starting.
type ProgressFn func(state types.RunState, message string)

// transitions lists the legal non-failure edges. Failed is reachable from
// every non-terminal state.
var transitions = map[types.RunState]types.RunState{
	types.StateInit:       types.StateExtracting,
	types.StateExtracting: types.StatePlanning,
	types.StatePlanning:   types.StateSearching,
	types.StateSearching:  types.StateMerging,
	types.StateMerging:    types.StateAnalyzing,
	types.StateAnalyzing:  types.StateDone,
}

// run tracks one pass through the state machine and accumulates its result.
type run struct {
	result   types.RunResult
	progress ProgressFn
	logger   *slog.Logger
}

func newRun(description string, progress ProgressFn, logger *slog.Logger) *run {
	r := &run{
		result: types.RunResult{
			RunID:       uuid.NewString(),
			Description: description,
			State:       types.StateInit,
			StartedAt:   time.Now(),
		},
		progress: progress,
	}
	r.result.StagesExecuted = []types.RunState{types.StateInit}
	r.logger = logger.With("run_id", r.result.RunID)
	return r
}

// enter moves the run to state. Illegal edges are programming errors.
func (r *run) enter(state types.RunState, message string) {
	from := r.result.State
	if state != types.StateFailed && transitions[from] != state {
		panic(fmt.Sprintf("copilot: illegal transition %s -> %s", from, state))
	}
	if from.Terminal() {
		panic(fmt.Sprintf("copilot: transition out of terminal state %s", from))
	}
	r.result.State = state
	r.result.StagesExecuted = append(r.result.StagesExecuted, state)
	r.logger.Debug("state transition", "from", from, "to", state)
	if r.progress != nil {
		r.progress(state, message)
	}
}

func (r *run) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.result.Warnings = append(r.result.Warnings, msg)
	r.logger.Warn(msg)
}

// fail moves the run to Failed and returns the finished result with err.
func (r *run) fail(err error) (types.RunResult, error) {
	r.result.Error = err.Error()
	r.enter(types.StateFailed, err.Error())
	r.finish()
	r.logger.Error("run failed", "error", err)
	return r.result, err
}

// done moves the run to Done and returns the finished result.
func (r *run) done() (types.RunResult, error) {
	r.enter(types.StateDone, r.result.Summary())
	r.finish()
	return r.result, nil
}

func (r *run) finish() {
	r.result.CompletedAt = time.Now()
	r.result.DurationMS = r.result.CompletedAt.Sub(r.result.StartedAt).Milliseconds()
}
