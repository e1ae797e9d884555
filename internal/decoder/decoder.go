// Package decoder turns raw EVM logs into typed event payloads. Each known
// event signature has one table entry: the keccak topic it matches, the
// number of indexed parameters it expects, the ABI layout of its data
// segment, and a constructor for the payload. Tables are kept per contract
// family because distinct contracts reuse signatures (both the referral
// program and the personal savings vault emit TokenAdded(address)); the
// caller resolves the family from the emitting address. Logs with an unknown
// topic are reported as such so callers can skip them without treating it as
// a failure.
package decoder

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrUnknownEvent is returned for logs whose topic zero is not in the table.
var ErrUnknownEvent = errors.New("unknown event topic")

// Family groups events by the contract that emits them.
type Family int

const (
	FamilyCircle Family = iota
	FamilyGoal
	FamilyReputation
	FamilyProfile
)

var (
	typeUint256 = mustType(abi.NewType("uint256", "", nil))
	typeUint64  = mustType(abi.NewType("uint64", "", nil))
	typeUint8   = mustType(abi.NewType("uint8", "", nil))
	typeBool    = mustType(abi.NewType("bool", "", nil))
	typeString  = mustType(abi.NewType("string", "", nil))
	typeAddress = mustType(abi.NewType("address", "", nil))
)

type eventDef struct {
	name      string
	signature string
	family    Family

	// indexed is the number of indexed parameters, i.e. topics beyond topic zero.
	indexed int
	data    abi.Arguments
	build   func(topics []ethcommon.Hash, v *values) model.Payload
}

// Decoder decodes logs of the four Circlepot contracts.
type Decoder struct {
	defs map[Family]map[ethcommon.Hash]*eventDef
}

// New builds the decoder with the full event table.
func New() *Decoder {
	d := &Decoder{defs: make(map[Family]map[ethcommon.Hash]*eventDef)}
	d.registerCircleEvents()
	d.registerGoalEvents()
	d.registerReputationEvents()
	d.registerProfileEvents()
	return d
}

// Topics returns the topic-zero hashes of every event in the given family,
// for use in log filters.
func (d *Decoder) Topics(family Family) []ethcommon.Hash {
	var topics []ethcommon.Hash
	for topic := range d.defs[family] {
		topics = append(topics, topic)
	}
	return topics
}

// Decode converts one raw log into a typed event. The family selects the
// decode table: the same topic can mean different events on different
// contracts. The block timestamp is not part of the log itself, so the
// caller supplies it from the block header.
func (d *Decoder) Decode(family Family, lg *types.Log, blockTimestamp uint64) (*model.Event, error) {
	if len(lg.Topics) == 0 {
		return nil, ErrUnknownEvent
	}

	def, ok := d.defs[family][lg.Topics[0]]
	if !ok {
		return nil, ErrUnknownEvent
	}

	if got := len(lg.Topics) - 1; got != def.indexed {
		return nil, fmt.Errorf("%s: expected %d indexed topics, got %d", def.name, def.indexed, got)
	}

	vals, err := def.data.UnpackValues(lg.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to unpack data: %w", def.name, err)
	}

	v := &values{name: def.name, vals: vals}
	payload := def.build(lg.Topics[1:], v)
	if v.err != nil {
		return nil, v.err
	}

	return &model.Event{
		Payload:        payload,
		TxHash:         lg.TxHash,
		BlockNumber:    lg.BlockNumber,
		BlockTimestamp: blockTimestamp,
		LogIndex:       lg.Index,
	}, nil
}

func (d *Decoder) register(def *eventDef) {
	topic := crypto.Keccak256Hash([]byte(def.signature))
	table := d.defs[def.family]
	if table == nil {
		table = make(map[ethcommon.Hash]*eventDef)
		d.defs[def.family] = table
	}
	if _, exists := table[topic]; exists {
		panic(fmt.Sprintf("duplicate event signature %s in family %d", def.signature, def.family))
	}
	table[topic] = def
}

func mustType(t abi.Type, err error) abi.Type {
	if err != nil {
		panic(err)
	}
	return t
}

func arg(name string, t abi.Type) abi.Argument {
	return abi.Argument{Name: name, Type: t}
}

// Topic accessors. Indexed value types are ABI-encoded into one 32-byte word.

func topicU64(t ethcommon.Hash) uint64 {
	return new(big.Int).SetBytes(t.Bytes()).Uint64()
}

func topicAddr(t ethcommon.Hash) ethcommon.Address {
	return ethcommon.BytesToAddress(t.Bytes())
}

// values gives positional, type-asserted access to unpacked data fields,
// accumulating the first assertion failure instead of forcing error checks
// at every read.
type values struct {
	name string
	vals []interface{}
	err  error
}

func (v *values) at(i int) interface{} {
	if v.err != nil {
		return nil
	}
	if i >= len(v.vals) {
		v.err = fmt.Errorf("%s: missing data field %d", v.name, i)
		return nil
	}
	return v.vals[i]
}

func (v *values) big(i int) *big.Int {
	val, ok := v.at(i).(*big.Int)
	if !ok && v.err == nil {
		v.err = fmt.Errorf("%s: data field %d is not uint256", v.name, i)
	}
	if val == nil {
		return big.NewInt(0)
	}
	return val
}

func (v *values) u64(i int) uint64 {
	return v.big(i).Uint64()
}

// word64 reads a declared uint64 field, which unpacks natively instead of
// arriving as a big.Int like uint256 does.
func (v *values) word64(i int) uint64 {
	val, ok := v.at(i).(uint64)
	if !ok && v.err == nil {
		v.err = fmt.Errorf("%s: data field %d is not uint64", v.name, i)
	}
	return val
}

func (v *values) u8(i int) uint8 {
	val, ok := v.at(i).(uint8)
	if !ok && v.err == nil {
		v.err = fmt.Errorf("%s: data field %d is not uint8", v.name, i)
	}
	return val
}

func (v *values) boolean(i int) bool {
	val, ok := v.at(i).(bool)
	if !ok && v.err == nil {
		v.err = fmt.Errorf("%s: data field %d is not bool", v.name, i)
	}
	return val
}

func (v *values) str(i int) string {
	val, ok := v.at(i).(string)
	if !ok && v.err == nil {
		v.err = fmt.Errorf("%s: data field %d is not string", v.name, i)
	}
	return val
}

func (v *values) addr(i int) ethcommon.Address {
	val, ok := v.at(i).(ethcommon.Address)
	if !ok && v.err == nil {
		v.err = fmt.Errorf("%s: data field %d is not address", v.name, i)
	}
	return val
}
