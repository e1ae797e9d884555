package identity

import (
	"math/big"
	"strings"
	"testing"

	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	txHash = common.HexToHash("0xAABB000000000000000000000000000000000000000000000000000000000001")
	alice  = common.HexToAddress("0xA11CE00000000000000000000000000000000001")
	bob    = common.HexToAddress("0xB0B0000000000000000000000000000000000002")
)

func eventWith(payload model.Payload, logIndex uint) *model.Event {
	return &model.Event{
		Payload:        payload,
		TxHash:         txHash,
		BlockNumber:    100,
		BlockTimestamp: 1_700_000_000,
		LogIndex:       logIndex,
	}
}

func TestEventIDSingularUsesTxHashOnly(t *testing.T) {
	ev := eventWith(&model.CircleCreated{CircleID: 1, Creator: alice}, 7)
	require.Equal(t, "0xaabb000000000000000000000000000000000000000000000000000000000001", EventID(ev))

	// The log index must not leak into a singular identity.
	other := eventWith(&model.CircleCreated{CircleID: 1, Creator: alice}, 9)
	require.Equal(t, EventID(ev), EventID(other))
}

func TestEventIDRecurringFoldsInLogIndex(t *testing.T) {
	first := eventWith(&model.ContributionMade{CircleID: 1, Member: alice, Amount: big.NewInt(10)}, 3)
	second := eventWith(&model.ContributionMade{CircleID: 1, Member: alice, Amount: big.NewInt(10)}, 4)

	require.NotEqual(t, EventID(first), EventID(second))
	require.Contains(t, EventID(first), "-3")
}

func TestEventIDAttributedFoldsInParticipant(t *testing.T) {
	forAlice := eventWith(&model.MemberForfeited{CircleID: 1, Member: alice, Deduction: big.NewInt(5)}, 3)
	forBob := eventWith(&model.MemberForfeited{CircleID: 1, Member: bob, Deduction: big.NewInt(5)}, 3)

	require.NotEqual(t, EventID(forAlice), EventID(forBob))
	require.Contains(t, EventID(forAlice), "0xa11ce00000000000000000000000000000000001")
}

func TestEventIDIsLowercase(t *testing.T) {
	ev := eventWith(&model.MemberForfeited{CircleID: 1, Member: alice, Deduction: big.NewInt(5)}, 0)
	require.Equal(t, strings.ToLower(EventID(ev)), EventID(ev))
}

func TestCircleKey(t *testing.T) {
	require.Equal(t, "circle-42", CircleKey(42))
}

func TestGoalKeyIsOwnerScoped(t *testing.T) {
	require.NotEqual(t, GoalKey(alice, 1), GoalKey(bob, 1))
	require.Equal(t, "0xa11ce00000000000000000000000000000000001-1", GoalKey(alice, 1))
}

func TestUserAndTokenKeysAreLowercaseHex(t *testing.T) {
	require.Equal(t, "0xa11ce00000000000000000000000000000000001", UserKey(alice))
	require.Equal(t, UserKey(bob), TokenKey(bob))
}

func TestAggregateKeyRouting(t *testing.T) {
	cases := []struct {
		payload model.Payload
		want    string
	}{
		{&model.CircleJoined{CircleID: 9, Member: alice}, CircleKey(9)},
		{&model.LateFeeAddedToPool{CircleID: 9}, CircleKey(9)},
		{&model.GoalContribution{Owner: alice, GoalID: 3}, GoalKey(alice, 3)},
		{&model.ReputationDecreased{User: bob}, UserKey(bob)},
		{&model.GoalCompleted{User: bob, GoalID: 3}, UserKey(bob)},
		{&model.ProfileUpdated{User: alice}, UserKey(alice)},
		{&model.UserReferred{Referrer: alice, NewUser: bob}, UserKey(bob)},
		{&model.ReferralRewardPaid{Referrer: alice, Referee: bob}, UserKey(alice)},
		{&model.ReferralTokenAdded{Token: bob}, TokenKey(bob)},
		{&model.CampaignStarted{}, ReferralSystemKey},
		{&model.ReferralRewardsToggled{}, ReferralSystemKey},
		{&model.VaultUpdated{Token: bob}, ProtocolKey},
		{&model.SavingsTokenAdded{Token: bob}, ProtocolKey},
		{&model.OwnershipTransferred{PreviousOwner: alice, NewOwner: bob}, ProtocolKey},
		{&model.Upgraded{Implementation: alice}, ProtocolKey},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, AggregateKey(tc.payload), "kind %s", tc.payload.Kind())
	}
}

// Every registered payload kind must route to some aggregate key without
// falling through to the unknown branch.
func TestAggregateKeyCoversAllKinds(t *testing.T) {
	for _, kind := range model.AllKinds() {
		payload, err := model.PayloadFor(kind)
		require.NoError(t, err, "kind %s", kind)
		require.NotContains(t, AggregateKey(payload), "unknown-", "kind %s", kind)
	}
}
