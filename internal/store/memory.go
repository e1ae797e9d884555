package store

import (
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// Compile-time check to ensure MemoryStore implements the Store interface.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store used in tests. It mirrors the SQLite
// implementation's behavior, including ID assignment and duplicate-identity
// rejection, and hands out copies so callers cannot alias stored state.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64

	circles map[uint64]*model.Circle
	goals   map[string]*model.PersonalGoal
	users   map[string]*model.User
	system  *model.ReferralSystem
	tokens  map[string]*model.ReferralTokenSettings

	events   []*model.EventRecord
	eventIDs map[string]*model.EventRecord

	checkpoint    uint64
	checkpointSet bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		circles:  make(map[uint64]*model.Circle),
		goals:    make(map[string]*model.PersonalGoal),
		users:    make(map[string]*model.User),
		tokens:   make(map[string]*model.ReferralTokenSettings),
		eventIDs: make(map[string]*model.EventRecord),
	}
}

func (s *MemoryStore) GetCircle(circleID uint64) (*model.Circle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	circle, ok := s.circles[circleID]
	if !ok {
		return nil, fmt.Errorf("circle %d: %w", circleID, ErrNotFound)
	}
	return copyCircle(circle), nil
}

func (s *MemoryStore) UpsertCircle(circle *model.Circle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if circle.ID == 0 {
		s.nextID++
		circle.ID = s.nextID
	}
	s.circles[circle.CircleID] = copyCircle(circle)
	return nil
}

func (s *MemoryStore) GetGoal(key string) (*model.PersonalGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[key]
	if !ok {
		return nil, fmt.Errorf("goal %s: %w", key, ErrNotFound)
	}
	return copyGoal(goal), nil
}

func (s *MemoryStore) UpsertGoal(goal *model.PersonalGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if goal.ID == 0 {
		s.nextID++
		goal.ID = s.nextID
	}
	s.goals[goal.Key] = copyGoal(goal)
	return nil
}

func (s *MemoryStore) GetUser(address common.Address) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[address.Hex()]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", address.Hex(), ErrNotFound)
	}
	return copyUser(user), nil
}

func (s *MemoryStore) UpsertUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	}
	s.users[user.Address.Hex()] = copyUser(user)
	return nil
}

func (s *MemoryStore) GetReferralSystem() (*model.ReferralSystem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.system == nil {
		return nil, fmt.Errorf("referral system: %w", ErrNotFound)
	}
	system := *s.system
	return &system, nil
}

func (s *MemoryStore) UpsertReferralSystem(system *model.ReferralSystem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if system.ID == 0 {
		s.nextID++
		system.ID = s.nextID
	}
	stored := *system
	s.system = &stored
	return nil
}

func (s *MemoryStore) GetTokenSettings(token common.Address) (*model.ReferralTokenSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, ok := s.tokens[token.Hex()]
	if !ok {
		return nil, fmt.Errorf("token settings %s: %w", token.Hex(), ErrNotFound)
	}
	return copyTokenSettings(settings), nil
}

func (s *MemoryStore) UpsertTokenSettings(settings *model.ReferralTokenSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.ID == 0 {
		s.nextID++
		settings.ID = s.nextID
	}
	s.tokens[settings.Token.Hex()] = copyTokenSettings(settings)
	return nil
}

func (s *MemoryStore) DeleteTokenSettings(token common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[token.Hex()]; !ok {
		return fmt.Errorf("token settings %s: %w", token.Hex(), ErrNotFound)
	}
	delete(s.tokens, token.Hex())
	return nil
}

func (s *MemoryStore) AppendEvent(record *model.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.eventIDs[record.EventID]; exists {
		return fmt.Errorf("event %s: %w", record.EventID, ErrDuplicateEvent)
	}

	s.nextID++
	record.ID = s.nextID
	stored := *record
	stored.Payload = append([]byte(nil), record.Payload...)
	s.events = append(s.events, &stored)
	s.eventIDs[record.EventID] = &stored
	return nil
}

func (s *MemoryStore) GetEvent(eventID string) (*model.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.eventIDs[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	copied := *record
	copied.Payload = append([]byte(nil), record.Payload...)
	return &copied, nil
}

func (s *MemoryStore) EventsInOrder(fn func(record *model.EventRecord) error) error {
	s.mu.Lock()
	records := make([]*model.EventRecord, len(s.events))
	copy(records, s.events)
	s.mu.Unlock()

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].BlockNumber != records[j].BlockNumber {
			return records[i].BlockNumber < records[j].BlockNumber
		}
		return records[i].LogIndex < records[j].LogIndex
	})

	for _, record := range records {
		stored := *record
		if err := fn(&stored); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) DeleteEventsFrom(blockNum uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, record := range s.events {
		if record.BlockNumber >= blockNum {
			delete(s.eventIDs, record.EventID)
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	s.events = kept
	return deleted, nil
}

func (s *MemoryStore) ResetAggregates() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.circles = make(map[uint64]*model.Circle)
	s.goals = make(map[string]*model.PersonalGoal)
	s.users = make(map[string]*model.User)
	s.system = nil
	s.tokens = make(map[string]*model.ReferralTokenSettings)
	return nil
}

func (s *MemoryStore) LastProcessedBlock() (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkpoint, s.checkpointSet, nil
}

func (s *MemoryStore) SetLastProcessedBlock(blockNum uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkpoint = blockNum
	s.checkpointSet = true
	return nil
}

// EventCount returns the number of stored event records.
func (s *MemoryStore) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.events)
}

func copyCircle(circle *model.Circle) *model.Circle {
	copied := *circle
	copied.ContributionAmount = copyBig(circle.ContributionAmount)
	copied.CollateralAmount = copyBig(circle.CollateralAmount)
	copied.TotalPot = copyBig(circle.TotalPot)
	copied.LateFeePool = copyBig(circle.LateFeePool)
	return &copied
}

func copyGoal(goal *model.PersonalGoal) *model.PersonalGoal {
	copied := *goal
	copied.TargetAmount = copyBig(goal.TargetAmount)
	copied.CurrentAmount = copyBig(goal.CurrentAmount)
	return &copied
}

func copyUser(user *model.User) *model.User {
	copied := *user
	copied.TotalReputation = copyBig(user.TotalReputation)
	copied.TotalReferralRewardsEarned = copyBig(user.TotalReferralRewardsEarned)
	copied.PendingRewardsEarned = copyBig(user.PendingRewardsEarned)
	if user.ReferredBy != nil {
		referredBy := *user.ReferredBy
		copied.ReferredBy = &referredBy
	}
	return &copied
}

func copyTokenSettings(settings *model.ReferralTokenSettings) *model.ReferralTokenSettings {
	copied := *settings
	copied.BonusAmount = copyBig(settings.BonusAmount)
	copied.CampaignBonusAmount = copyBig(settings.CampaignBonusAmount)
	copied.TotalRewardsFunded = copyBig(settings.TotalRewardsFunded)
	copied.TotalRewardsPaid = copyBig(settings.TotalRewardsPaid)
	return &copied
}

func copyBig(value *big.Int) *big.Int {
	if value == nil {
		return nil
	}
	return new(big.Int).Set(value)
}
