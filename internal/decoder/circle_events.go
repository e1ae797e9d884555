package decoder

import (
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Events of the circle savings contract. The circle id and, where present,
// the member address are indexed.
func (d *Decoder) registerCircleEvents() {
	d.register(&eventDef{
		name:      "CircleCreated",
		signature: "CircleCreated(uint256,address,string,string,uint256,uint256,uint256,uint256,bool,bool,address)",
		family:    FamilyCircle,
		indexed:   2,
		data: abi.Arguments{
			arg("name", typeString),
			arg("description", typeString),
			arg("contributionAmount", typeUint256),
			arg("collateralAmount", typeUint256),
			arg("frequency", typeUint256),
			arg("maxMembers", typeUint256),
			arg("isPublic", typeBool),
			arg("isYieldEnabled", typeBool),
			arg("token", typeAddress),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CircleCreated{
				CircleID:           topicU64(topics[0]),
				Creator:            topicAddr(topics[1]),
				Name:               v.str(0),
				Description:        v.str(1),
				ContributionAmount: v.big(2),
				CollateralAmount:   v.big(3),
				Frequency:          v.u64(4),
				MaxMembers:         v.u64(5),
				IsPublic:           v.boolean(6),
				IsYieldEnabled:     v.boolean(7),
				Token:              v.addr(8),
			}
		},
	})

	d.register(&eventDef{
		name:      "CircleJoined",
		signature: "CircleJoined(uint256,address,uint256,uint8)",
		family:    FamilyCircle,
		indexed:   2,
		data: abi.Arguments{
			arg("currentMembers", typeUint256),
			arg("state", typeUint8),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CircleJoined{
				CircleID:       topicU64(topics[0]),
				Member:         topicAddr(topics[1]),
				CurrentMembers: v.u64(0),
				State:          model.CircleState(v.u8(1)),
			}
		},
	})

	d.register(&eventDef{
		name:      "CircleStarted",
		signature: "CircleStarted(uint256,uint256)",
		family:    FamilyCircle,
		indexed:   1,
		data:      abi.Arguments{arg("startedAt", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CircleStarted{
				CircleID:  topicU64(topics[0]),
				StartedAt: v.u64(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "PayoutDistributed",
		signature: "PayoutDistributed(uint256,address,uint256,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data: abi.Arguments{
			arg("amount", typeUint256),
			arg("round", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.PayoutDistributed{
				CircleID:  topicU64(topics[0]),
				Recipient: topicAddr(topics[1]),
				Amount:    v.big(0),
				Round:     v.u64(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "PositionAssigned",
		signature: "PositionAssigned(uint256,address,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data:      abi.Arguments{arg("position", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.PositionAssigned{
				CircleID: topicU64(topics[0]),
				Member:   topicAddr(topics[1]),
				Position: v.u64(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "CollateralWithdrawn",
		signature: "CollateralWithdrawn(uint256,address,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data:      abi.Arguments{arg("amount", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CollateralWithdrawn{
				CircleID: topicU64(topics[0]),
				Member:   topicAddr(topics[1]),
				Amount:   v.big(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "VotingInitiated",
		signature: "VotingInitiated(uint256,address)",
		family:    FamilyCircle,
		indexed:   2,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.VotingInitiated{
				CircleID:    topicU64(topics[0]),
				InitiatedBy: topicAddr(topics[1]),
			}
		},
	})

	d.register(&eventDef{
		name:      "VoteCast",
		signature: "VoteCast(uint256,address,bool)",
		family:    FamilyCircle,
		indexed:   2,
		data:      abi.Arguments{arg("voteToStart", typeBool)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.VoteCast{
				CircleID:    topicU64(topics[0]),
				Voter:       topicAddr(topics[1]),
				VoteToStart: v.boolean(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "VoteExecuted",
		signature: "VoteExecuted(uint256,uint256,uint256)",
		family:    FamilyCircle,
		indexed:   1,
		data: abi.Arguments{
			arg("startVotes", typeUint256),
			arg("withdrawVotes", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.VoteExecuted{
				CircleID:      topicU64(topics[0]),
				StartVotes:    v.u64(0),
				WithdrawVotes: v.u64(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "ContributionMade",
		signature: "ContributionMade(uint256,address,uint256,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data: abi.Arguments{
			arg("amount", typeUint256),
			arg("round", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ContributionMade{
				CircleID: topicU64(topics[0]),
				Member:   topicAddr(topics[1]),
				Amount:   v.big(0),
				Round:    v.u64(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "LateContributionMade",
		signature: "LateContributionMade(uint256,address,uint256,uint256,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data: abi.Arguments{
			arg("amount", typeUint256),
			arg("fee", typeUint256),
			arg("round", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.LateContributionMade{
				CircleID: topicU64(topics[0]),
				Member:   topicAddr(topics[1]),
				Amount:   v.big(0),
				Fee:      v.big(1),
				Round:    v.u64(2),
			}
		},
	})

	d.register(&eventDef{
		name:      "MemberForfeited",
		signature: "MemberForfeited(uint256,address,uint256,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data: abi.Arguments{
			arg("deduction", typeUint256),
			arg("round", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.MemberForfeited{
				CircleID:  topicU64(topics[0]),
				Member:    topicAddr(topics[1]),
				Deduction: v.big(0),
				Round:     v.u64(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "MemberInvited",
		signature: "MemberInvited(uint256,address,address)",
		family:    FamilyCircle,
		indexed:   2,
		data:      abi.Arguments{arg("invitee", typeAddress)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.MemberInvited{
				CircleID: topicU64(topics[0]),
				Inviter:  topicAddr(topics[1]),
				Invitee:  v.addr(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "VisibilityUpdated",
		signature: "VisibilityUpdated(uint256,bool)",
		family:    FamilyCircle,
		indexed:   1,
		data:      abi.Arguments{arg("isPublic", typeBool)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.VisibilityUpdated{
				CircleID: topicU64(topics[0]),
				IsPublic: v.boolean(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "CollateralReturned",
		signature: "CollateralReturned(uint256,address,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data:      abi.Arguments{arg("amount", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CollateralReturned{
				CircleID: topicU64(topics[0]),
				Member:   topicAddr(topics[1]),
				Amount:   v.big(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "DeadCircleFeeDeducted",
		signature: "DeadCircleFeeDeducted(uint256,address,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data:      abi.Arguments{arg("fee", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.DeadCircleFeeDeducted{
				CircleID: topicU64(topics[0]),
				Member:   topicAddr(topics[1]),
				Fee:      v.big(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "PointsAwarded",
		signature: "PointsAwarded(uint256,address,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data:      abi.Arguments{arg("points", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.PointsAwarded{
				CircleID: topicU64(topics[0]),
				Member:   topicAddr(topics[1]),
				Points:   v.u64(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "YieldDistributed",
		signature: "YieldDistributed(uint256,uint256,uint256,address)",
		family:    FamilyCircle,
		indexed:   1,
		data: abi.Arguments{
			arg("yieldAmount", typeUint256),
			arg("platformShare", typeUint256),
			arg("token", typeAddress),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CircleYieldDistributed{
				CircleID:      topicU64(topics[0]),
				YieldAmount:   v.big(0),
				PlatformShare: v.big(1),
				Token:         v.addr(2),
			}
		},
	})

	d.register(&eventDef{
		name:      "LateFeeAddedToPool",
		signature: "LateFeeAddedToPool(uint256,uint256,uint256)",
		family:    FamilyCircle,
		indexed:   1,
		data: abi.Arguments{
			arg("amount", typeUint256),
			arg("round", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.LateFeeAddedToPool{
				CircleID: topicU64(topics[0]),
				Amount:   v.big(0),
				Round:    v.u64(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "MemberRewardClaimed",
		signature: "MemberRewardClaimed(uint256,address,uint256)",
		family:    FamilyCircle,
		indexed:   2,
		data:      abi.Arguments{arg("amount", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.MemberRewardClaimed{
				CircleID: topicU64(topics[0]),
				Member:   topicAddr(topics[1]),
				Amount:   v.big(0),
			}
		},
	})
}
