package decoder

import (
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Events of the reputation contract, all keyed by the affected user.
func (d *Decoder) registerReputationEvents() {
	d.register(&eventDef{
		name:      "ReputationIncreased",
		signature: "ReputationIncreased(address,uint256,string)",
		family:    FamilyReputation,
		indexed:   1,
		data: abi.Arguments{
			arg("points", typeUint256),
			arg("reason", typeString),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ReputationIncreased{
				User:   topicAddr(topics[0]),
				Points: v.big(0),
				Reason: v.str(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "ReputationDecreased",
		signature: "ReputationDecreased(address,uint256,string)",
		family:    FamilyReputation,
		indexed:   1,
		data: abi.Arguments{
			arg("points", typeUint256),
			arg("reason", typeString),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ReputationDecreased{
				User:   topicAddr(topics[0]),
				Points: v.big(0),
				Reason: v.str(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "ScoreCategoryChanged",
		signature: "ScoreCategoryChanged(address,uint8,uint8)",
		family:    FamilyReputation,
		indexed:   1,
		data: abi.Arguments{
			arg("oldCategory", typeUint8),
			arg("newCategory", typeUint8),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ScoreCategoryChanged{
				User:        topicAddr(topics[0]),
				OldCategory: v.u8(0),
				NewCategory: v.u8(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "CircleCompleted",
		signature: "CircleCompleted(address,uint256,uint256)",
		family:    FamilyReputation,
		indexed:   1,
		data: abi.Arguments{
			arg("cid", typeUint256),
			arg("totalCompleted", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CircleCompleted{
				User:           topicAddr(topics[0]),
				CircleID:       v.u64(0),
				TotalCompleted: v.u64(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "GoalCompleted",
		signature: "GoalCompleted(address,uint256,uint256)",
		family:    FamilyReputation,
		indexed:   1,
		data: abi.Arguments{
			arg("goalId", typeUint256),
			arg("totalCompleted", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.GoalCompleted{
				User:           topicAddr(topics[0]),
				GoalID:         v.u64(0),
				TotalCompleted: v.u64(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "ContractAuthorized",
		signature: "ContractAuthorized(address)",
		family:    FamilyReputation,
		indexed:   1,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ContractAuthorized{Contract: topicAddr(topics[0])}
		},
	})

	d.register(&eventDef{
		name:      "ContractRevoked",
		signature: "ContractRevoked(address)",
		family:    FamilyReputation,
		indexed:   1,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ContractRevoked{Contract: topicAddr(topics[0])}
		},
	})

	d.registerProxyEvents(FamilyReputation)

	d.register(&eventDef{
		name:      "LatePaymentRecorded",
		signature: "LatePaymentRecorded(address,uint256,uint256,uint256,uint256)",
		family:    FamilyReputation,
		indexed:   1,
		data: abi.Arguments{
			arg("cid", typeUint256),
			arg("round", typeUint256),
			arg("fee", typeUint256),
			arg("totalLatePayments", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.LatePaymentRecorded{
				User:              topicAddr(topics[0]),
				CircleID:          v.u64(0),
				Round:             v.u64(1),
				Fee:               v.big(2),
				TotalLatePayments: v.u64(3),
			}
		},
	})
}
