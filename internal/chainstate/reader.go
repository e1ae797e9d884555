// Package chainstate reads point-in-time authoritative state from the
// savings contracts. The projector uses it opportunistically to fill fields
// the event payloads omit; every read is best-effort and a failure must
// never be fatal for the core state machine.
package chainstate

import (
	"context"
	"errors"
	"math/big"
)

// ErrUnavailable is returned when authoritative state cannot be fetched.
// Callers fall back to locally-derived values.
var ErrUnavailable = errors.New("authoritative state unavailable")

// GoalState is the current on-chain state of one personal savings goal.
type GoalState struct {
	CurrentAmount  *big.Int
	IsActive       bool
	IsYieldEnabled bool
}

// Reader fetches current contract state for enrichment.
type Reader interface {
	// GoalState reads the live state of a personal goal. Returns
	// ErrUnavailable (possibly wrapped) when the read fails.
	GoalState(ctx context.Context, goalID uint64) (*GoalState, error)
}

// NopReader is a Reader that never has state. Used when no RPC endpoint is
// configured and during replay, where only event-carried data may be used.
type NopReader struct{}

func (NopReader) GoalState(ctx context.Context, goalID uint64) (*GoalState, error) {
	return nil, ErrUnavailable
}

// StaticReader serves goal state from a fixed map. Test helper.
type StaticReader struct {
	Goals map[uint64]*GoalState
}

func (r *StaticReader) GoalState(ctx context.Context, goalID uint64) (*GoalState, error) {
	state, ok := r.Goals[goalID]
	if !ok {
		return nil, ErrUnavailable
	}
	return state, nil
}
