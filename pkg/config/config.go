// Package config loads the orchestrator's and reconstructors' runtime
// configuration from the environment, following a plain
// env-var-with-defaults idiom: getEnvOrDefault helpers plus a typed
// parse-and-validate pass, scoped to this system's surface.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestrator's environment-derived settings.
type Config struct {
	UpstreamToken   string
	UpstreamBaseURL string
	DatabaseURL     string
	HTTPPort        string

	Reconstruct ReconstructDefaults
	Retention   RetentionConfig
}

// ReconstructDefaults holds the default reconstructor parameters, overridable
// via cmd/reconstruct flags; the reconstruction input file carries no
// reconstructor parameters.
type ReconstructDefaults struct {
	Iters       int
	LambdaBal   float64
	Seed        int64
	TimeLimitMS int64
	LogEvery    int
	SaveEvery   int
	T0          float64
	Alpha       float64
	TMin        float64
	Restarts    int
	ReheatEvery int
	ReheatTo    float64
}

// DefaultReconstructDefaults returns the built-in reconstructor defaults.
func DefaultReconstructDefaults() ReconstructDefaults {
	return ReconstructDefaults{
		Iters:       200_000,
		LambdaBal:   0.5,
		Seed:        1,
		TimeLimitMS: 30_000,
		LogEvery:    10_000,
		SaveEvery:   0,
		T0:          1.0,
		Alpha:       0.999,
		TMin:        1e-4,
		Restarts:    1,
		ReheatEvery: 0,
		ReheatTo:    0.1,
	}
}

// RetentionConfig controls the cleanup service's janitor loop.
type RetentionConfig struct {
	// SessionRetention is how long a completed/failed session's row (and
	// its cascaded api_logs) is kept before being purged.
	SessionRetention time.Duration
	// Interval is how often the janitor sweeps for expired sessions.
	Interval time.Duration
}

// DefaultRetentionConfig gives conservative retention defaults, scaled
// to this system's much shorter-lived sessions.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		SessionRetention: 30 * 24 * time.Hour,
		Interval:         time.Hour,
	}
}

// Load reads Config from the environment. UPSTREAM_TOKEN, UPSTREAM_BASE_URL,
// and DATABASE_URL are required; everything else falls back to defaults.
func Load() (*Config, error) {
	cfg := &Config{
		UpstreamToken:   os.Getenv("UPSTREAM_TOKEN"),
		UpstreamBaseURL: os.Getenv("UPSTREAM_BASE_URL"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		HTTPPort:        getEnvOrDefault("HTTP_PORT", "8080"),
		Reconstruct:     DefaultReconstructDefaults(),
		Retention:       DefaultRetentionConfig(),
	}

	var missing []string
	if cfg.UpstreamToken == "" {
		missing = append(missing, "UPSTREAM_TOKEN")
	}
	if cfg.UpstreamBaseURL == "" {
		missing = append(missing, "UPSTREAM_BASE_URL")
	}
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return nil, NewMissingEnvError(missing)
	}

	if v := os.Getenv("RECONSTRUCT_ITERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Reconstruct.Iters = n
		}
	}
	if v := os.Getenv("RECONSTRUCT_LAMBDA_BAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Reconstruct.LambdaBal = f
		}
	}
	if v := os.Getenv("RECONSTRUCT_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Reconstruct.Seed = n
		}
	}
	if v := os.Getenv("SESSION_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Retention.SessionRetention = d
		}
	}
	if v := os.Getenv("CLEANUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Retention.Interval = d
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
