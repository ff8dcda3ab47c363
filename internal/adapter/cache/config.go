package cache

// Config mirrors the redis connection options plus cache-specific knobs.
type Config struct {
	Host               string `validate:"required,hostname|ip"`
	Port               string `validate:"required,numeric"`
	Password           string
	DB                 int `validate:"gte=0"`
	UseTLS             bool
	PoolSize           int `validate:"gte=0"`
	MaxRetries         int `validate:"gte=0"`
	DialTimeoutSeconds int `validate:"gte=0"`
	// ReportTTLSeconds bounds how long a cached ordering report is served
	// before the block is re-checked. Zero means no expiry.
	ReportTTLSeconds int `validate:"gte=0"`
	KeyPrefix        string
}
