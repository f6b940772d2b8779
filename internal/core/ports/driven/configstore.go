package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation ("lark.app_id"). Implementations handle
// persistence and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if missing or not a string.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if missing or not an integer.
	GetInt(key string) int

	// GetFloat retrieves a number as float64, or 0 if missing or not a number.
	GetFloat(key string) float64

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
