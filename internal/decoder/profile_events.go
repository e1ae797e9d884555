package decoder

import (
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Events of the user profile contract: profiles, referrals and referral
// program administration.
func (d *Decoder) registerProfileEvents() {
	d.register(&eventDef{
		name:      "ProfileCreated",
		signature: "ProfileCreated(address,uint256,string,string,string,string,string,uint256,bool)",
		family:    FamilyProfile,
		indexed:   1,
		data: abi.Arguments{
			arg("accountId", typeUint256),
			arg("email", typeString),
			arg("phoneNumber", typeString),
			arg("username", typeString),
			arg("fullName", typeString),
			arg("profilePhoto", typeString),
			arg("createdAt", typeUint256),
			arg("hasProfile", typeBool),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ProfileCreated{
				User:        topicAddr(topics[0]),
				AccountID:   v.u64(0),
				Email:       v.str(1),
				PhoneNumber: v.str(2),
				Username:    v.str(3),
				FullName:    v.str(4),
				Photo:       v.str(5),
				CreatedAt:   v.u64(6),
				HasProfile:  v.boolean(7),
			}
		},
	})

	d.register(&eventDef{
		name:      "ProfileUpdated",
		signature: "ProfileUpdated(address,string,string)",
		family:    FamilyProfile,
		indexed:   1,
		data: abi.Arguments{
			arg("fullName", typeString),
			arg("photo", typeString),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ProfileUpdated{
				User:     topicAddr(topics[0]),
				FullName: v.str(0),
				Photo:    v.str(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "ContactInfoUpdated",
		signature: "ContactInfoUpdated(address,string,string)",
		family:    FamilyProfile,
		indexed:   1,
		data: abi.Arguments{
			arg("email", typeString),
			arg("phoneNumber", typeString),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ContactInfoUpdated{
				User:        topicAddr(topics[0]),
				Email:       v.str(0),
				PhoneNumber: v.str(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "PhotoUpdated",
		signature: "PhotoUpdated(address,string)",
		family:    FamilyProfile,
		indexed:   1,
		data:      abi.Arguments{arg("photo", typeString)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.PhotoUpdated{
				User:  topicAddr(topics[0]),
				Photo: v.str(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "UserReferred",
		signature: "UserReferred(address,address)",
		family:    FamilyProfile,
		indexed:   2,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.UserReferred{
				NewUser:  topicAddr(topics[0]),
				Referrer: topicAddr(topics[1]),
			}
		},
	})

	d.register(&eventDef{
		name:      "ReferralRewardPending",
		signature: "ReferralRewardPending(address,address,address,uint256)",
		family:    FamilyProfile,
		indexed:   2,
		data: abi.Arguments{
			arg("token", typeAddress),
			arg("rewardAmount", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ReferralRewardPending{
				Referrer: topicAddr(topics[0]),
				Referee:  topicAddr(topics[1]),
				Token:    v.addr(0),
				Amount:   v.big(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "ReferralRewardPaid",
		signature: "ReferralRewardPaid(address,address,address,uint256)",
		family:    FamilyProfile,
		indexed:   2,
		data: abi.Arguments{
			arg("token", typeAddress),
			arg("rewardAmount", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ReferralRewardPaid{
				Referrer: topicAddr(topics[0]),
				Referee:  topicAddr(topics[1]),
				Token:    v.addr(0),
				Amount:   v.big(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "ReferralRewardsToggled",
		signature: "ReferralRewardsToggled(bool)",
		family:    FamilyProfile,
		indexed:   0,
		data:      abi.Arguments{arg("enabled", typeBool)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ReferralRewardsToggled{Enabled: v.boolean(0)}
		},
	})

	d.register(&eventDef{
		name:      "ReferralBonusUpdated",
		signature: "ReferralBonusUpdated(address,uint256)",
		family:    FamilyProfile,
		indexed:   1,
		data:      abi.Arguments{arg("newAmount", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ReferralBonusUpdated{
				Token:     topicAddr(topics[0]),
				NewAmount: v.big(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "CampaignStarted",
		signature: "CampaignStarted(uint256,uint256)",
		family:    FamilyProfile,
		indexed:   0,
		data: abi.Arguments{
			arg("startTime", typeUint256),
			arg("endTime", typeUint256),
		},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CampaignStarted{
				StartTime: v.u64(0),
				EndTime:   v.u64(1),
			}
		},
	})

	d.register(&eventDef{
		name:      "CampaignBonusUpdated",
		signature: "CampaignBonusUpdated(address,uint256)",
		family:    FamilyProfile,
		indexed:   1,
		data:      abi.Arguments{arg("bonusAmount", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CampaignBonusUpdated{
				Token:       topicAddr(topics[0]),
				BonusAmount: v.big(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "CampaignEnded",
		signature: "CampaignEnded()",
		family:    FamilyProfile,
		indexed:   0,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.CampaignEnded{}
		},
	})

	d.register(&eventDef{
		name:      "RewardFundsDeposited",
		signature: "RewardFundsDeposited(address,address,uint256)",
		family:    FamilyProfile,
		indexed:   2,
		data:      abi.Arguments{arg("amount", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.RewardFundsDeposited{
				From:   topicAddr(topics[0]),
				Token:  topicAddr(topics[1]),
				Amount: v.big(0),
			}
		},
	})

	d.register(&eventDef{
		name:      "TokenAdded",
		signature: "TokenAdded(address)",
		family:    FamilyProfile,
		indexed:   1,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ReferralTokenAdded{Token: topicAddr(topics[0])}
		},
	})

	d.register(&eventDef{
		name:      "TokenRemoved",
		signature: "TokenRemoved(address)",
		family:    FamilyProfile,
		indexed:   1,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ReferralTokenRemoved{Token: topicAddr(topics[0])}
		},
	})

	d.register(&eventDef{
		name:      "PersonalSavingsContractUpdated",
		signature: "PersonalSavingsContractUpdated(address)",
		family:    FamilyProfile,
		indexed:   1,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.PersonalSavingsContractUpdated{
				NewContract: topicAddr(topics[0]),
			}
		},
	})

	d.register(&eventDef{
		name:      "ContractUpgraded",
		signature: "ContractUpgraded(address,uint256)",
		family:    FamilyProfile,
		indexed:   1,
		data:      abi.Arguments{arg("version", typeUint256)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.ContractUpgraded{
				NewImplementation: topicAddr(topics[0]),
				Version:           v.u64(0),
			}
		},
	})

	d.registerProxyEvents(FamilyProfile)
}
