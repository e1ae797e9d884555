package decoder

import (
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Events of the personal savings contract, all keyed by (owner, goalId).
func (d *Decoder) registerGoalEvents() {
	d.register(&eventDef{
		name:      "PersonalGoalCreated",
		signature: "PersonalGoalCreated(address,uint256,string,uint256,uint256,uint256,uint256,bool,address)",
		family:    FamilyGoal,
		indexed:   2,
		data: abi.Arguments{
			arg("name", typeString),
			arg("amount", typeUint256),
			arg("currentAmount", typeUint256),
			arg("frequency", typeUint256),
			arg("deadline", typeUint256),
			arg("isActive", typeBool),
			arg("token", typeAddress),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.GoalCreated{
				Owner:         topicAddr(topics[0]),
				GoalID:        topicU64(topics[1]),
				Name:          v.str(0),
				TargetAmount:  v.big(1),
				CurrentAmount: v.big(2),
				Frequency:     v.u64(3),
				Deadline:      v.u64(4),
				IsActive:      v.boolean(5),
				Token:         v.addr(6),
			}
		},
	})

	d.register(&eventDef{
		name:      "GoalContribution",
		signature: "GoalContribution(address,uint256,uint256,uint256,address)",
		family:    FamilyGoal,
		indexed:   2,
		data: abi.Arguments{
			arg("amount", typeUint256),
			arg("currentAmount", typeUint256),
			arg("token", typeAddress),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.GoalContribution{
				Owner:         topicAddr(topics[0]),
				GoalID:        topicU64(topics[1]),
				Amount:        v.big(0),
				CurrentAmount: v.big(1),
				Token:         v.addr(2),
			}
		},
	})

	d.register(&eventDef{
		name:      "GoalWithdrawn",
		signature: "GoalWithdrawn(address,uint256,uint256,uint256,address)",
		family:    FamilyGoal,
		indexed:   2,
		data: abi.Arguments{
			arg("amount", typeUint256),
			arg("penalty", typeUint256),
			arg("token", typeAddress),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.GoalWithdrawn{
				Owner:   topicAddr(topics[0]),
				GoalID:  topicU64(topics[1]),
				Amount:  v.big(0),
				Penalty: v.big(1),
				Token:   v.addr(2),
			}
		},
	})

	d.register(&eventDef{
		name:      "YieldDistributed",
		signature: "YieldDistributed(address,uint256,uint256,uint256,address)",
		family:    FamilyGoal,
		indexed:   2,
		data: abi.Arguments{
			arg("yieldAmount", typeUint256),
			arg("platformShare", typeUint256),
			arg("token", typeAddress),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.GoalYieldDistributed{
				Owner:         topicAddr(topics[0]),
				GoalID:        topicU64(topics[1]),
				YieldAmount:   v.big(0),
				PlatformShare: v.big(1),
				Token:         v.addr(2),
			}
		},
	})

	// Vault and token roster administration. Same TokenAdded/TokenRemoved
	// signatures as the referral program; the family keeps them apart.
	d.register(&eventDef{
		name:      "VaultUpdated",
		signature: "VaultUpdated(address,address)",
		family:    FamilyGoal,
		indexed:   2,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.VaultUpdated{
				Token:    topicAddr(topics[0]),
				NewVault: topicAddr(topics[1]),
			}
		},
	})

	d.register(&eventDef{
		name:      "TokenAdded",
		signature: "TokenAdded(address)",
		family:    FamilyGoal,
		indexed:   1,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.SavingsTokenAdded{Token: topicAddr(topics[0])}
		},
	})

	d.register(&eventDef{
		name:      "TokenRemoved",
		signature: "TokenRemoved(address)",
		family:    FamilyGoal,
		indexed:   1,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.SavingsTokenRemoved{Token: topicAddr(topics[0])}
		},
	})
}
