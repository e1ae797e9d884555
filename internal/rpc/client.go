// Package rpc wraps the go-ethereum client with the calls the feed needs:
// filtered log queries, finality-aware header reads, batched header fetches
// for block timestamps, and read-only contract calls. Every call goes
// through the retry policy from the configuration.
package rpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/DevBigEazi/circlepot-indexer/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Client is a retrying Ethereum RPC client.
type Client struct {
	eth   *ethclient.Client
	rpc   *ethrpc.Client
	retry *config.RetryConfig
}

// NewClient connects to the given endpoint. The retry config may be nil, in
// which case every call is attempted exactly once.
func NewClient(ctx context.Context, endpoint string, retry *config.RetryConfig) (*Client, error) {
	rpcClient, err := ethrpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}

	return &Client{
		eth:   ethclient.NewClient(rpcClient),
		rpc:   rpcClient,
		retry: retry,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Logs runs eth_getLogs for the given filter.
func (c *Client) Logs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := c.call(ctx, "eth_getLogs", func() error {
		var err error
		logs, err = c.eth.FilterLogs(ctx, query)
		return err
	})
	return logs, err
}

// HeaderByNumber fetches the header of a specific block.
func (c *Client) HeaderByNumber(ctx context.Context, blockNum uint64) (*types.Header, error) {
	return c.header(ctx, new(big.Int).SetUint64(blockNum))
}

// LatestHeader fetches the chain head header.
func (c *Client) LatestHeader(ctx context.Context) (*types.Header, error) {
	return c.header(ctx, nil)
}

// FinalizedHeader fetches the finalized block header.
func (c *Client) FinalizedHeader(ctx context.Context) (*types.Header, error) {
	return c.header(ctx, big.NewInt(int64(ethrpc.FinalizedBlockNumber)))
}

// SafeHeader fetches the safe block header.
func (c *Client) SafeHeader(ctx context.Context) (*types.Header, error) {
	return c.header(ctx, big.NewInt(int64(ethrpc.SafeBlockNumber)))
}

func (c *Client) header(ctx context.Context, num *big.Int) (*types.Header, error) {
	var header *types.Header
	err := c.call(ctx, "eth_getBlockByNumber", func() error {
		var err error
		header, err = c.eth.HeaderByNumber(ctx, num)
		return err
	})
	return header, err
}

// HeadersByNumbers fetches multiple headers in batched JSON-RPC calls. The
// result preserves the input order.
func (c *Client) HeadersByNumbers(ctx context.Context, blockNums []uint64) ([]*types.Header, error) {
	const maxBatch = 100

	headers := make([]*types.Header, 0, len(blockNums))
	for start := 0; start < len(blockNums); start += maxBatch {
		end := min(start+maxBatch, len(blockNums))
		chunk := blockNums[start:end]

		batch := make([]ethrpc.BatchElem, len(chunk))
		results := make([]*types.Header, len(chunk))
		for i, blockNum := range chunk {
			batch[i] = ethrpc.BatchElem{
				Method: "eth_getBlockByNumber",
				Args:   []any{toBlockNumArg(blockNum), false},
				Result: &results[i],
			}
		}

		err := c.call(ctx, "eth_getBlockByNumber", func() error {
			if err := c.rpc.BatchCallContext(ctx, batch); err != nil {
				return err
			}
			for i, elem := range batch {
				if elem.Error != nil {
					return fmt.Errorf("header %d: %w", chunk[i], elem.Error)
				}
				if results[i] == nil {
					return fmt.Errorf("header %d: not found", chunk[i])
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		headers = append(headers, results...)
	}

	return headers, nil
}

// CallContract performs a read-only contract call at the given block
// (nil for latest). Satisfies the contract caller the state reader needs.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out []byte
	err := c.call(ctx, "eth_call", func() error {
		var err error
		out, err = c.eth.CallContract(ctx, msg, blockNumber)
		return err
	})
	return out, err
}

func (c *Client) call(ctx context.Context, method string, fn func() error) error {
	RPCMethodInc(method)
	start := time.Now()
	err := retryWithBackoff(ctx, c.retry, method, fn)
	RPCMethodDuration(method, time.Since(start))
	if err != nil {
		RPCMethodError(method)
	}
	return err
}

func toBlockNumArg(blockNum uint64) string {
	return fmt.Sprintf("0x%x", blockNum)
}
