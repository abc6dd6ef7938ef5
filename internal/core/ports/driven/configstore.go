package driven

// ConfigStore persists user settings as flat dotted keys
// (e.g. "llm.provider", "retrieval.budget").
type ConfigStore interface {
	// Get retrieves a value and whether the key exists.
	Get(key string) (any, bool)

	// GetString returns "" for missing or non-string values.
	GetString(key string) string

	// GetInt returns 0 for missing or non-integer values.
	GetInt(key string) int

	// GetFloat returns 0 for missing or non-numeric values.
	GetFloat(key string) float64

	// GetBool returns false for missing or non-boolean values.
	GetBool(key string) bool

	// GetStringSlice returns nil for missing or non-slice values.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Keys returns all stored keys in sorted order.
	Keys() []string

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
