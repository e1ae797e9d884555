package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-sqlite3"
	"github.com/russross/meddler"
)

// Compile-time check to ensure SQLiteStore implements the Store interface.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite as the backend.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteStore creates a new SQLite-backed Store.
func NewSQLiteStore(db *sql.DB, log *logger.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:  db,
		log: log,
	}
}

// GetCircle retrieves the circle aggregate with the given circle id.
func (s *SQLiteStore) GetCircle(circleID uint64) (*model.Circle, error) {
	circle := new(model.Circle)
	err := meddler.QueryRow(s.db, circle, `SELECT * FROM circles WHERE circle_id = ?`, circleID)
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("circle %d", circleID))
	}
	return circle, nil
}

// UpsertCircle inserts the circle if it is new, otherwise updates it in place.
func (s *SQLiteStore) UpsertCircle(circle *model.Circle) error {
	if circle.ID == 0 {
		if err := meddler.Insert(s.db, "circles", circle); err != nil {
			return fmt.Errorf("failed to insert circle %d: %w", circle.CircleID, err)
		}
		return nil
	}
	if err := meddler.Update(s.db, "circles", circle); err != nil {
		return fmt.Errorf("failed to update circle %d: %w", circle.CircleID, err)
	}
	return nil
}

// GetGoal retrieves the personal goal aggregate with the given composite key.
func (s *SQLiteStore) GetGoal(key string) (*model.PersonalGoal, error) {
	goal := new(model.PersonalGoal)
	err := meddler.QueryRow(s.db, goal, `SELECT * FROM personal_goals WHERE goal_key = ?`, key)
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("goal %s", key))
	}
	return goal, nil
}

// UpsertGoal inserts or updates a personal goal aggregate.
func (s *SQLiteStore) UpsertGoal(goal *model.PersonalGoal) error {
	if goal.ID == 0 {
		if err := meddler.Insert(s.db, "personal_goals", goal); err != nil {
			return fmt.Errorf("failed to insert goal %s: %w", goal.Key, err)
		}
		return nil
	}
	if err := meddler.Update(s.db, "personal_goals", goal); err != nil {
		return fmt.Errorf("failed to update goal %s: %w", goal.Key, err)
	}
	return nil
}

// GetUser retrieves the user aggregate for the given address.
func (s *SQLiteStore) GetUser(address common.Address) (*model.User, error) {
	user := new(model.User)
	err := meddler.QueryRow(s.db, user, `SELECT * FROM users WHERE address = ?`, address.Hex())
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("user %s", address.Hex()))
	}
	return user, nil
}

// UpsertUser inserts or updates a user aggregate.
func (s *SQLiteStore) UpsertUser(user *model.User) error {
	if user.ID == 0 {
		if err := meddler.Insert(s.db, "users", user); err != nil {
			return fmt.Errorf("failed to insert user %s: %w", user.Address.Hex(), err)
		}
		return nil
	}
	if err := meddler.Update(s.db, "users", user); err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.Address.Hex(), err)
	}
	return nil
}

// GetReferralSystem retrieves the singleton referral system record.
func (s *SQLiteStore) GetReferralSystem() (*model.ReferralSystem, error) {
	system := new(model.ReferralSystem)
	err := meddler.QueryRow(s.db, system, `SELECT * FROM referral_system LIMIT 1`)
	if err != nil {
		return nil, mapNotFound(err, "referral system")
	}
	return system, nil
}

// UpsertReferralSystem inserts or updates the singleton referral system record.
func (s *SQLiteStore) UpsertReferralSystem(system *model.ReferralSystem) error {
	if system.ID == 0 {
		if err := meddler.Insert(s.db, "referral_system", system); err != nil {
			return fmt.Errorf("failed to insert referral system: %w", err)
		}
		return nil
	}
	if err := meddler.Update(s.db, "referral_system", system); err != nil {
		return fmt.Errorf("failed to update referral system: %w", err)
	}
	return nil
}

// GetTokenSettings retrieves the referral settings for the given token.
func (s *SQLiteStore) GetTokenSettings(token common.Address) (*model.ReferralTokenSettings, error) {
	settings := new(model.ReferralTokenSettings)
	err := meddler.QueryRow(s.db, settings,
		`SELECT * FROM referral_token_settings WHERE token = ?`, token.Hex())
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("token settings %s", token.Hex()))
	}
	return settings, nil
}

// UpsertTokenSettings inserts or updates per-token referral settings.
func (s *SQLiteStore) UpsertTokenSettings(settings *model.ReferralTokenSettings) error {
	if settings.ID == 0 {
		if err := meddler.Insert(s.db, "referral_token_settings", settings); err != nil {
			return fmt.Errorf("failed to insert token settings %s: %w", settings.Token.Hex(), err)
		}
		return nil
	}
	if err := meddler.Update(s.db, "referral_token_settings", settings); err != nil {
		return fmt.Errorf("failed to update token settings %s: %w", settings.Token.Hex(), err)
	}
	return nil
}

// DeleteTokenSettings removes the settings record for the given token.
// This is the only aggregate deletion in the model.
func (s *SQLiteStore) DeleteTokenSettings(token common.Address) error {
	result, err := s.db.Exec(`DELETE FROM referral_token_settings WHERE token = ?`, token.Hex())
	if err != nil {
		return fmt.Errorf("failed to delete token settings %s: %w", token.Hex(), err)
	}
	if deleted, _ := result.RowsAffected(); deleted == 0 {
		return fmt.Errorf("token settings %s: %w", token.Hex(), ErrNotFound)
	}
	return nil
}

// AppendEvent writes one immutable event record.
func (s *SQLiteStore) AppendEvent(record *model.EventRecord) error {
	if err := meddler.Insert(s.db, "event_records", record); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("event %s: %w", record.EventID, ErrDuplicateEvent)
		}
		return fmt.Errorf("failed to append event %s: %w", record.EventID, err)
	}
	return nil
}

// GetEvent returns the stored record with the given event identity.
func (s *SQLiteStore) GetEvent(eventID string) (*model.EventRecord, error) {
	record := new(model.EventRecord)
	err := meddler.QueryRow(s.db, record, `SELECT * FROM event_records WHERE event_id = ?`, eventID)
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("event %s", eventID))
	}
	return record, nil
}

// EventsInOrder streams every event record in (block number, log index) order.
func (s *SQLiteStore) EventsInOrder(fn func(record *model.EventRecord) error) error {
	var records []*model.EventRecord
	err := meddler.QueryAll(s.db, &records,
		`SELECT * FROM event_records ORDER BY block_number ASC, log_index ASC`)
	if err != nil {
		return fmt.Errorf("failed to query event records: %w", err)
	}

	for _, record := range records {
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEventsFrom removes all event records at or after the given block.
func (s *SQLiteStore) DeleteEventsFrom(blockNum uint64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM event_records WHERE block_number >= ?`, blockNum)
	if err != nil {
		return 0, fmt.Errorf("failed to delete events from block %d: %w", blockNum, err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// ResetAggregates clears every aggregate table.
func (s *SQLiteStore) ResetAggregates() error {
	tables := []string{
		"circles",
		"personal_goals",
		"users",
		"referral_system",
		"referral_token_settings",
	}
	for _, table := range tables {
		if _, err := s.db.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// LastProcessedBlock returns the feed checkpoint.
func (s *SQLiteStore) LastProcessedBlock() (uint64, bool, error) {
	var blockNum uint64
	err := s.db.QueryRow(`SELECT last_block FROM indexer_state WHERE id = 1`).Scan(&blockNum)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return blockNum, true, nil
}

// SetLastProcessedBlock stores the feed checkpoint.
func (s *SQLiteStore) SetLastProcessedBlock(blockNum uint64) error {
	_, err := s.db.Exec(`
		INSERT INTO indexer_state (id, last_block) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET last_block = excluded.last_block`, blockNum)
	if err != nil {
		return fmt.Errorf("failed to store checkpoint: %w", err)
	}
	return nil
}

func mapNotFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
