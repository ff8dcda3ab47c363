package metrics

// Component label values used by app-level metrics.
const (
	ComponentChain    = "chain"
	ComponentContract = "contract"
	ComponentOrdering = "ordering"
	ComponentCache    = "cache"
	ComponentHTTP     = "http"
)
