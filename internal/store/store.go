// Package store is the downstream persistence layer for the projector:
// keyed aggregate load/upsert, immutable event record appends, and the
// single deletion the model allows (per-token referral settings).
// All operations are per-key; no cross-key transactions are assumed.
package store

import (
	"errors"

	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotFound is returned when an aggregate does not exist for the given key.
	ErrNotFound = errors.New("aggregate not found")

	// ErrDuplicateEvent is returned when an event record with the same identity
	// was already appended. The projector resolves it: a byte-identical record
	// is a feed redelivery and gets skipped, anything else is a data-integrity
	// violation.
	ErrDuplicateEvent = errors.New("duplicate event identity")
)

// Store is the repository the projector writes through. Implementations must
// guarantee that a read-modify-write against one aggregate key is not
// interleaved with another write to the same key; the indexer upholds this by
// applying events sequentially.
type Store interface {
	GetCircle(circleID uint64) (*model.Circle, error)
	UpsertCircle(circle *model.Circle) error

	GetGoal(key string) (*model.PersonalGoal, error)
	UpsertGoal(goal *model.PersonalGoal) error

	GetUser(address common.Address) (*model.User, error)
	UpsertUser(user *model.User) error

	GetReferralSystem() (*model.ReferralSystem, error)
	UpsertReferralSystem(system *model.ReferralSystem) error

	GetTokenSettings(token common.Address) (*model.ReferralTokenSettings, error)
	UpsertTokenSettings(settings *model.ReferralTokenSettings) error

	// DeleteTokenSettings removes the settings record for the given token.
	// Deleting a token that has no record fails with ErrNotFound.
	DeleteTokenSettings(token common.Address) error

	// AppendEvent writes one immutable event record. Records are write-once:
	// a second append with the same event identity fails with ErrDuplicateEvent.
	AppendEvent(record *model.EventRecord) error

	// GetEvent returns the stored record with the given event identity, or
	// ErrNotFound.
	GetEvent(eventID string) (*model.EventRecord, error)

	// EventsInOrder streams every stored event record in (block number,
	// log index) order, the canonical application order for replay.
	EventsInOrder(fn func(record *model.EventRecord) error) error

	// DeleteEventsFrom removes all event records at or after the given block
	// and returns the number of removed records. Used only when the upstream
	// chain itself rolled back.
	DeleteEventsFrom(blockNum uint64) (int64, error)

	// ResetAggregates clears every aggregate table so the event log can be
	// refolded from genesis.
	ResetAggregates() error

	// LastProcessedBlock returns the feed checkpoint, with ok=false on a
	// fresh database.
	LastProcessedBlock() (blockNum uint64, ok bool, err error)
	SetLastProcessedBlock(blockNum uint64) error
}
