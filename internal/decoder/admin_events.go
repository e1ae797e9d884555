package decoder

import (
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// registerProxyEvents adds the proxy lifecycle events every upgradeable
// Circlepot contract emits. They are recorded for provenance and touch no
// aggregate, so the same definitions serve each family that needs them.
func (d *Decoder) registerProxyEvents(family Family) {
	d.register(&eventDef{
		name:      "Initialized",
		signature: "Initialized(uint64)",
		family:    family,
		indexed:   0,
		data:      abi.Arguments{arg("version", typeUint64)},
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.Initialized{Version: v.word64(0)}
		},
	})

	d.register(&eventDef{
		name:      "OwnershipTransferred",
		signature: "OwnershipTransferred(address,address)",
		family:    family,
		indexed:   2,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.OwnershipTransferred{
				PreviousOwner: topicAddr(topics[0]),
				NewOwner:      topicAddr(topics[1]),
			}
		},
	})

	d.register(&eventDef{
		name:      "Upgraded",
		signature: "Upgraded(address)",
		family:    family,
		indexed:   1,
		build: func(topics []ethcommon.Hash, v *values) model.Payload {
			return &model.Upgraded{Implementation: topicAddr(topics[0])}
		},
	})
}
