package rpc

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/DevBigEazi/circlepot-indexer/internal/common"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
)

var (
	tooManyResultsRe = regexp.MustCompile(`Query returned more than \d+ results`)
	blockRangeRe     = regexp.MustCompile(`\[(0x[0-9a-fA-F]+),\s*(0x[0-9a-fA-F]+)\]`)
)

// IsTooManyResultsError reports whether the error is the provider's
// "query returned more than N results" rejection of a log filter, and
// returns the provider's message for range parsing.
func IsTooManyResultsError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	var dataErr ethrpc.DataError
	if errors.As(err, &dataErr) {
		errData := fmt.Sprintf("%v", dataErr.ErrorData())
		return tooManyResultsRe.MatchString(errData), errData
	}

	return false, ""
}

// ParseSuggestedBlockRange extracts the block range some providers suggest in
// the too-many-results message, e.g.
// "Query returned more than 20000 results. Try with this block range [0x7dfd25, 0x7e0fcc]."
func ParseSuggestedBlockRange(message string) (fromBlock, toBlock uint64, ok bool) {
	if message == "" {
		return 0, 0, false
	}

	matches := blockRangeRe.FindStringSubmatch(message)
	const expectedMatches = 3 // full match plus two groups
	if len(matches) != expectedMatches {
		return 0, 0, false
	}

	from, err1 := common.ParseUint64orHex(&matches[1])
	to, err2 := common.ParseUint64orHex(&matches[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}

	return from, to, true
}
