package config

import (
	"fmt"
	"strings"
)

// ValidationResult accumulates configuration problems the way operator
// tooling reports them: errors block startup, warnings do not.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (vr *ValidationResult) addError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

func (vr *ValidationResult) addWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors reports whether validation failed.
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid
}

func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, e := range vr.Errors {
		sb.WriteString("  - " + e + "\n")
	}
	return sb.String()
}

// Validate checks a Config for internal consistency before the engine wires
// a store and starts serving requests.
func Validate(cfg *Config) *ValidationResult {
	vr := &ValidationResult{Valid: true}

	switch cfg.Storage.Type {
	case "sqlite":
		if cfg.Storage.SQLitePath == "" {
			vr.addError("storage.sqlite_path is required when storage.type is sqlite")
		}
	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			vr.addError("storage.postgres_dsn is required when storage.type is postgres")
		}
	default:
		vr.addError("storage.type must be %q or %q, got %q", "sqlite", "postgres", cfg.Storage.Type)
	}

	if cfg.Rating.EloK <= 0 {
		vr.addError("rating.elo_k must be positive, got %v", cfg.Rating.EloK)
	}
	if cfg.Rating.MinVotes < 0 {
		vr.addError("rating.min_votes cannot be negative")
	}

	if cfg.Graph.Neo4jURI != "" && (cfg.Graph.Neo4jUser == "" || cfg.Graph.Neo4jPassword == "") {
		vr.addWarning("graph.neo4j_uri is set without credentials; the graph mirror will connect with empty credentials")
	}

	return vr
}
