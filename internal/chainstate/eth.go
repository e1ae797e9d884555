package chainstate

import (
	"context"
	"fmt"
	"math/big"

	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ContractCaller is the subset of the Ethereum RPC client needed for
// read-only contract calls. ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Compile-time check to ensure EthReader implements the Reader interface.
var _ Reader = (*EthReader)(nil)

// EthReader reads goal state from the PersonalSavings contract via eth_call.
type EthReader struct {
	caller          ContractCaller
	personalSavings common.Address
	log             *logger.Logger

	goalSelector []byte
	goalOutputs  abi.Arguments
}

// NewEthReader creates a Reader backed by the given RPC caller.
func NewEthReader(caller ContractCaller, personalSavings common.Address, log *logger.Logger) *EthReader {
	return &EthReader{
		caller:          caller,
		personalSavings: personalSavings,
		log:             log,
		goalSelector:    crypto.Keccak256([]byte("personalGoals(uint256)"))[:4],
		goalOutputs: abi.Arguments{
			{Name: "owner", Type: mustType("address")},
			{Name: "name", Type: mustType("string")},
			{Name: "targetAmount", Type: mustType("uint256")},
			{Name: "currentAmount", Type: mustType("uint256")},
			{Name: "frequency", Type: mustType("uint256")},
			{Name: "deadline", Type: mustType("uint256")},
			{Name: "isActive", Type: mustType("bool")},
			{Name: "isYieldEnabled", Type: mustType("bool")},
			{Name: "token", Type: mustType("address")},
		},
	}
}

// GoalState calls personalGoals(goalId) on the PersonalSavings contract.
func (r *EthReader) GoalState(ctx context.Context, goalID uint64) (*GoalState, error) {
	data := make([]byte, 0, 4+32) //nolint:mnd
	data = append(data, r.goalSelector...)
	data = append(data, common.LeftPadBytes(new(big.Int).SetUint64(goalID).Bytes(), 32)...)

	output, err := r.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &r.personalSavings,
		Data: data,
	}, nil)
	if err != nil {
		r.log.Debugf("personalGoals(%d) call failed: %v", goalID, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	values, err := r.goalOutputs.Unpack(output)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unpack personalGoals output: %v", ErrUnavailable, err)
	}

	const (
		currentAmountIdx  = 3
		isActiveIdx       = 6
		isYieldEnabledIdx = 7
	)

	currentAmount, ok := values[currentAmountIdx].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected currentAmount type %T", ErrUnavailable, values[currentAmountIdx])
	}
	isActive, ok := values[isActiveIdx].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected isActive type %T", ErrUnavailable, values[isActiveIdx])
	}
	isYieldEnabled, ok := values[isYieldEnabledIdx].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected isYieldEnabled type %T", ErrUnavailable, values[isYieldEnabledIdx])
	}

	return &GoalState{
		CurrentAmount:  currentAmount,
		IsActive:       isActive,
		IsYieldEnabled: isYieldEnabled,
	}, nil
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}
