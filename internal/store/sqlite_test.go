package store

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/DevBigEazi/circlepot-indexer/internal/db"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/DevBigEazi/circlepot-indexer/internal/migrations"
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "indexer.db")
	require.NoError(t, migrations.RunMigrations(dbPath))

	database, err := db.NewSQLiteDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return NewSQLiteStore(database, logger.NewNopLogger())
}

func record(eventID string, block uint64, logIndex uint) *model.EventRecord {
	return &model.EventRecord{
		EventID:        eventID,
		Kind:           string(model.KindCircleCreated),
		AggregateKey:   "circle-1",
		TxHash:         ethcommon.BytesToHash([]byte(eventID)),
		BlockNumber:    block,
		BlockTimestamp: 1_700_000_000,
		LogIndex:       logIndex,
		Payload:        []byte(`{"circleId":1}`),
	}
}

func TestCircleRoundTrip(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetCircle(1)
	require.ErrorIs(t, err, ErrNotFound)

	circle := &model.Circle{
		CircleID:           1,
		Creator:            ethcommon.HexToAddress("0x01"),
		Name:               "lagos traders",
		ContributionAmount: big.NewInt(1_000_000),
		CollateralAmount:   big.NewInt(2_000_000),
		MaxMembers:         5,
		CurrentMembers:     1,
		TotalPot:           big.NewInt(0),
		LateFeePool:        big.NewInt(0),
		Token:              ethcommon.HexToAddress("0x02"),
	}
	require.NoError(t, st.UpsertCircle(circle))
	require.NotZero(t, circle.ID)

	loaded, err := st.GetCircle(1)
	require.NoError(t, err)
	require.Equal(t, "lagos traders", loaded.Name)
	require.Equal(t, big.NewInt(1_000_000), loaded.ContributionAmount)

	loaded.CurrentMembers = 2
	loaded.TotalPot = big.NewInt(500)
	require.NoError(t, st.UpsertCircle(loaded))

	again, err := st.GetCircle(1)
	require.NoError(t, err)
	require.Equal(t, uint64(2), again.CurrentMembers)
	require.Equal(t, big.NewInt(500), again.TotalPot)
}

func TestGoalRoundTrip(t *testing.T) {
	st := newTestStore(t)

	goal := &model.PersonalGoal{
		Key:           "0xaa-1",
		GoalID:        1,
		Owner:         ethcommon.HexToAddress("0xaa"),
		Name:          "new laptop",
		TargetAmount:  big.NewInt(900),
		CurrentAmount: big.NewInt(0),
		IsActive:      true,
	}
	require.NoError(t, st.UpsertGoal(goal))

	loaded, err := st.GetGoal("0xaa-1")
	require.NoError(t, err)
	require.True(t, loaded.IsActive)
	require.Equal(t, "new laptop", loaded.Name)

	_, err = st.GetGoal("0xbb-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRoundTripKeepsNilReferrer(t *testing.T) {
	st := newTestStore(t)

	addr := ethcommon.HexToAddress("0xaa")
	user := model.NewUser(addr)
	user.Username = "Ada"
	require.NoError(t, st.UpsertUser(user))

	loaded, err := st.GetUser(addr)
	require.NoError(t, err)
	require.Nil(t, loaded.ReferredBy)
	require.Equal(t, "Ada", loaded.Username)

	referrer := ethcommon.HexToAddress("0xbb")
	loaded.ReferredBy = &referrer
	require.NoError(t, st.UpsertUser(loaded))

	again, err := st.GetUser(addr)
	require.NoError(t, err)
	require.NotNil(t, again.ReferredBy)
	require.Equal(t, referrer, *again.ReferredBy)
}

func TestTokenSettingsDelete(t *testing.T) {
	st := newTestStore(t)

	token := ethcommon.HexToAddress("0xcc")
	settings := model.NewReferralTokenSettings(token)
	settings.BonusAmount = big.NewInt(10)
	require.NoError(t, st.UpsertTokenSettings(settings))

	_, err := st.GetTokenSettings(token)
	require.NoError(t, err)

	require.NoError(t, st.DeleteTokenSettings(token))
	_, err = st.GetTokenSettings(token)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent record reports ErrNotFound so the caller can tell
	// a removal for a token that was never admitted from a real deletion.
	require.ErrorIs(t, st.DeleteTokenSettings(token), ErrNotFound)
}

func TestAppendEventRejectsDuplicateIdentity(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AppendEvent(record("ev-1", 100, 0)))

	err := st.AppendEvent(record("ev-1", 101, 3))
	require.ErrorIs(t, err, ErrDuplicateEvent)
}

func TestGetEventByIdentity(t *testing.T) {
	st := newTestStore(t)

	want := record("ev-1", 100, 4)
	require.NoError(t, st.AppendEvent(want))

	got, err := st.GetEvent("ev-1")
	require.NoError(t, err)
	require.Equal(t, want.EventID, got.EventID)
	require.Equal(t, want.BlockNumber, got.BlockNumber)
	require.Equal(t, want.LogIndex, got.LogIndex)
	require.Equal(t, want.TxHash, got.TxHash)
	require.Equal(t, want.Payload, got.Payload)

	_, err = st.GetEvent("ev-absent")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEventsInOrderSortsByBlockThenIndex(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AppendEvent(record("ev-c", 101, 0)))
	require.NoError(t, st.AppendEvent(record("ev-b", 100, 5)))
	require.NoError(t, st.AppendEvent(record("ev-a", 100, 2)))

	var order []string
	require.NoError(t, st.EventsInOrder(func(r *model.EventRecord) error {
		order = append(order, r.EventID)
		return nil
	}))
	require.Equal(t, []string{"ev-a", "ev-b", "ev-c"}, order)
}

func TestDeleteEventsFrom(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AppendEvent(record("ev-1", 100, 0)))
	require.NoError(t, st.AppendEvent(record("ev-2", 101, 0)))
	require.NoError(t, st.AppendEvent(record("ev-3", 102, 0)))

	deleted, err := st.DeleteEventsFrom(101)
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	var remaining []string
	require.NoError(t, st.EventsInOrder(func(r *model.EventRecord) error {
		remaining = append(remaining, r.EventID)
		return nil
	}))
	require.Equal(t, []string{"ev-1"}, remaining)
}

func TestResetAggregatesKeepsEventLog(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.UpsertCircle(&model.Circle{
		CircleID:           1,
		ContributionAmount: big.NewInt(0),
		CollateralAmount:   big.NewInt(0),
		TotalPot:           big.NewInt(0),
		LateFeePool:        big.NewInt(0),
	}))
	require.NoError(t, st.UpsertUser(model.NewUser(ethcommon.HexToAddress("0xaa"))))
	require.NoError(t, st.AppendEvent(record("ev-1", 100, 0)))

	require.NoError(t, st.ResetAggregates())

	_, err := st.GetCircle(1)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetUser(ethcommon.HexToAddress("0xaa"))
	require.ErrorIs(t, err, ErrNotFound)

	count := 0
	require.NoError(t, st.EventsInOrder(func(*model.EventRecord) error {
		count++
		return nil
	}))
	require.Equal(t, 1, count)
}

func TestCheckpointRoundTrip(t *testing.T) {
	st := newTestStore(t)

	_, ok, err := st.LastProcessedBlock()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, st.SetLastProcessedBlock(100))
	require.NoError(t, st.SetLastProcessedBlock(200))

	block, ok, err := st.LastProcessedBlock()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(200), block)
}

func TestReferralSystemSingleton(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetReferralSystem()
	require.ErrorIs(t, err, ErrNotFound)

	system := &model.ReferralSystem{
		Key:            "referral-system",
		RewardsEnabled: true,
	}
	require.NoError(t, st.UpsertReferralSystem(system))

	loaded, err := st.GetReferralSystem()
	require.NoError(t, err)
	require.True(t, loaded.RewardsEnabled)

	loaded.CampaignMode = true
	require.NoError(t, st.UpsertReferralSystem(loaded))

	again, err := st.GetReferralSystem()
	require.NoError(t, err)
	require.True(t, again.CampaignMode)
}
