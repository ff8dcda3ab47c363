package chain

// Config holds configuration for the Ethereum chain reader.
//
// RPCURL is the JSON-RPC endpoint (http/https or ws/wss) of the node the
// service reads from, e.g. the BSC testnet endpoint. Fetch and dial
// behavior is tunable; zero values fall back to defaults.
type Config struct {
	RPCURL                    string  `validate:"required,uri"`
	FetchTimeoutSeconds       int     `validate:"gte=0,lte=300"`
	DialMaxRetryAttempts      int     `validate:"gte=0"`
	DialRetryInitialBackoffMS int     `validate:"gte=0"`
	DialRetryMaxBackoffMS     int     `validate:"gte=0"`
	DialRetryJitter           float64 `validate:"gte=0,lte=1"`
}
