package model

// ================ Config ================

// SessionConfig controls session persistence behaviour.
type SessionConfig struct {
	// Backend selects the store implementation: "redis" or "memory".
	Backend string `envconfig:"SESSION_BACKEND" default:"memory"`
	TTL     string `envconfig:"SESSION_TTL" default:"30m"`
}

// ClassifierModelConfig configures the LLM intent classifier.
type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"512"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.1"`
}

// TurnConfig bounds a single orchestrated turn.
type TurnConfig struct {
	// CallTimeout is the deadline applied around the classifier call and
	// around handler dispatch so an unresponsive collaborator cannot hang
	// the turn.
	CallTimeout string `envconfig:"TURN_CALL_TIMEOUT" default:"30s"`
}

// DatabaseConfig points the profiling engine at its data source.
type DatabaseConfig struct {
	DSN string `envconfig:"DATABASE_DSN" default:"file:demo.db"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `envconfig:"SERVER_ADDR" default:":8080"`
}
