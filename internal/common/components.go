package common

const (
	ComponentFeed       = "feed"
	ComponentDecoder    = "decoder"
	ComponentProjector  = "projector"
	ComponentStore      = "store"
	ComponentChainState = "chain-state"
	ComponentIndexer    = "indexer"
	ComponentMetrics    = "metrics"
)

var AllComponents = map[string]struct{}{
	ComponentFeed:       {},
	ComponentDecoder:    {},
	ComponentProjector:  {},
	ComponentStore:      {},
	ComponentChainState: {},
	ComponentIndexer:    {},
	ComponentMetrics:    {},
}
