package indexer

import (
	"testing"

	"github.com/DevBigEazi/circlepot-indexer/internal/config"
	"github.com/DevBigEazi/circlepot-indexer/internal/decoder"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/DevBigEazi/circlepot-indexer/internal/projector"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var (
	circleContract  = ethcommon.HexToAddress("0x1000000000000000000000000000000000000001")
	goalContract    = ethcommon.HexToAddress("0x1000000000000000000000000000000000000002")
	repContract     = ethcommon.HexToAddress("0x1000000000000000000000000000000000000003")
	profileContract = ethcommon.HexToAddress("0x1000000000000000000000000000000000000004")

	alice = ethcommon.HexToAddress("0x2000000000000000000000000000000000000001")
	bob   = ethcommon.HexToAddress("0x2000000000000000000000000000000000000002")
)

func newTestIndexer(t *testing.T) (*Indexer, *store.MemoryStore) {
	t.Helper()

	cfg := &config.Config{
		Feed: config.FeedConfig{StartBlock: 50},
		Contracts: config.ContractsConfig{
			CircleSavings:   circleContract.Hex(),
			PersonalSavings: goalContract.Hex(),
			Reputation:      repContract.Hex(),
			UserProfile:     profileContract.Hex(),
		},
	}

	st := store.NewMemoryStore()
	log := logger.NewNopLogger()
	proj := projector.New(st, nil, log)

	return New(cfg, decoder.New(), proj, st, log), st
}

func topicOf(signature string) ethcommon.Hash {
	return crypto.Keccak256Hash([]byte(signature))
}

func addrTopic(addr ethcommon.Address) ethcommon.Hash {
	return ethcommon.BytesToHash(addr.Bytes())
}

// userReferredLog builds a UserReferred log, which carries no data payload.
func userReferredLog(referrer, referee ethcommon.Address, block uint64, index uint) types.Log {
	return types.Log{
		Address:     profileContract,
		Topics:      []ethcommon.Hash{topicOf("UserReferred(address,address)"), addrTopic(referrer), addrTopic(referee)},
		BlockNumber: block,
		TxHash:      ethcommon.BytesToHash([]byte{byte(block), byte(index)}),
		Index:       index,
	}
}

func TestEventsToIndexCoversAllContracts(t *testing.T) {
	idx, _ := newTestIndexer(t)

	topics := idx.EventsToIndex()
	require.Len(t, topics, 4)

	require.Contains(t, topics[circleContract], topicOf("CircleStarted(uint256,uint256)"))
	require.Contains(t, topics[goalContract], topicOf("GoalContribution(address,uint256,uint256,uint256,address)"))
	require.Contains(t, topics[repContract], topicOf("ReputationIncreased(address,uint256,string)"))
	require.Contains(t, topics[profileContract], topicOf("UserReferred(address,address)"))

	require.NotContains(t, topics[circleContract], topicOf("UserReferred(address,address)"))
}

func TestStartBlockComesFromConfig(t *testing.T) {
	idx, _ := newTestIndexer(t)
	require.Equal(t, uint64(50), idx.StartBlock())
}

func TestHandleLogsDecodesAndApplies(t *testing.T) {
	idx, st := newTestIndexer(t)

	logs := []types.Log{userReferredLog(alice, bob, 100, 0)}
	timestamps := map[uint64]uint64{100: 1_700_000_000}

	require.NoError(t, idx.HandleLogs(logs, timestamps))
	require.Equal(t, 1, st.EventCount())

	referee, err := st.GetUser(bob)
	require.NoError(t, err)
	require.NotNil(t, referee.ReferredBy)
	require.Equal(t, alice, *referee.ReferredBy)
}

// The feed redelivers a whole chunk when it crashed after applying the logs
// but before advancing its checkpoint. The redelivered chunk usually carries
// logs beyond the already-applied prefix; the prefix must be skipped and the
// rest applied, or the indexer wedges on restart.
func TestHandleLogsToleratesRedeliveredChunk(t *testing.T) {
	idx, st := newTestIndexer(t)

	first := userReferredLog(alice, bob, 100, 0)
	timestamps := map[uint64]uint64{100: 1_700_000_000, 101: 1_700_000_012}

	require.NoError(t, idx.HandleLogs([]types.Log{first}, timestamps))
	require.Equal(t, 1, st.EventCount())

	second := userReferredLog(bob, alice, 101, 0)
	require.NoError(t, idx.HandleLogs([]types.Log{first, second}, timestamps))
	require.Equal(t, 2, st.EventCount())

	// The log beyond the redelivered prefix was applied.
	referee, err := st.GetUser(alice)
	require.NoError(t, err)
	require.NotNil(t, referee.ReferredBy)
	require.Equal(t, bob, *referee.ReferredBy)
}

// TokenAdded(address) means referral program admission on the profile
// contract and vault roster admission on the personal savings contract. The
// emitting address decides which one a log becomes.
func TestHandleLogsRoutesSharedTopicByContract(t *testing.T) {
	idx, st := newTestIndexer(t)

	token := ethcommon.HexToAddress("0x3000000000000000000000000000000000000001")
	tokenAdded := func(contract ethcommon.Address, block uint64) types.Log {
		return types.Log{
			Address:     contract,
			Topics:      []ethcommon.Hash{topicOf("TokenAdded(address)"), addrTopic(token)},
			BlockNumber: block,
			TxHash:      ethcommon.BytesToHash([]byte{byte(block)}),
		}
	}

	logs := []types.Log{tokenAdded(profileContract, 100), tokenAdded(goalContract, 101)}
	timestamps := map[uint64]uint64{100: 1_700_000_000, 101: 1_700_000_012}
	require.NoError(t, idx.HandleLogs(logs, timestamps))
	require.Equal(t, 2, st.EventCount())

	// The profile log admitted the token to the referral program; the goal
	// log was record-only and created no settings for anything else.
	_, err := st.GetTokenSettings(token)
	require.NoError(t, err)
}

func TestHandleLogsDropsForeignLogs(t *testing.T) {
	idx, st := newTestIndexer(t)

	// A profile-family topic emitted by the circle contract passes the
	// upstream OR filter but must not be applied.
	lg := userReferredLog(alice, bob, 100, 0)
	lg.Address = circleContract

	require.NoError(t, idx.HandleLogs([]types.Log{lg}, map[uint64]uint64{100: 1_700_000_000}))
	require.Equal(t, 0, st.EventCount())
}

func TestHandleLogsDropsLogsFromUnknownContract(t *testing.T) {
	idx, st := newTestIndexer(t)

	lg := userReferredLog(alice, bob, 100, 0)
	lg.Address = ethcommon.HexToAddress("0x9999999999999999999999999999999999999999")

	require.NoError(t, idx.HandleLogs([]types.Log{lg}, map[uint64]uint64{100: 1_700_000_000}))
	require.Equal(t, 0, st.EventCount())
}

func TestHandleLogsFailsWithoutTimestamp(t *testing.T) {
	idx, _ := newTestIndexer(t)

	logs := []types.Log{userReferredLog(alice, bob, 100, 0)}
	err := idx.HandleLogs(logs, map[uint64]uint64{})
	require.ErrorContains(t, err, "no timestamp for block 100")
}

func TestHandleReorgTruncatesAndReplays(t *testing.T) {
	idx, st := newTestIndexer(t)

	logs := []types.Log{
		userReferredLog(alice, bob, 100, 0),
		userReferredLog(bob, alice, 101, 0),
	}
	timestamps := map[uint64]uint64{100: 1_700_000_000, 101: 1_700_000_012}
	require.NoError(t, idx.HandleLogs(logs, timestamps))
	require.Equal(t, 2, st.EventCount())

	require.NoError(t, idx.HandleReorg(101))

	require.Equal(t, 1, st.EventCount())

	block, ok, err := st.LastProcessedBlock()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(100), block)

	// The first referral survives the truncation, the second is gone.
	referee, err := st.GetUser(bob)
	require.NoError(t, err)
	require.NotNil(t, referee.ReferredBy)
	require.Equal(t, alice, *referee.ReferredBy)

	former, err := st.GetUser(alice)
	require.NoError(t, err)
	require.Nil(t, former.ReferredBy)
}
