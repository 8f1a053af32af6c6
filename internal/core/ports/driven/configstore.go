package driven

// ConfigStore holds flattened configuration keyed by dot paths such as
// "retrieval.top_k". Typed getters return the zero value when a key is
// missing or holds another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set stores value under key and persists the store.
	Set(key string, value any) error

	// Save writes the store to its backing file.
	Save() error

	// Load re-reads the backing file, replacing in-memory values.
	Load() error

	// Path is the backing file location.
	Path() string
}
