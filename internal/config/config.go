package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/stream"
)

// Config is the top-level dungeon.yaml document.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Stream     StreamConfig     `yaml:"stream"`
	Server     ServerConfig     `yaml:"server"`
	Catalog    CatalogConfig    `yaml:"catalog"`
}

// GenerationConfig holds the chunk generation parameters.
type GenerationConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Gutter        int     `yaml:"gutter"`
	Iterations    int     `yaml:"iterations"`
	MinimumSize   int     `yaml:"minimum_size"`
	MinimumRatio  float64 `yaml:"minimum_ratio"`
	SplitRetries  int     `yaml:"split_retries"`
	CorridorWidth int     `yaml:"corridor_width"`

	// Seed is kept as the exact text written in the file; numeric seeds are
	// not normalised.
	Seed string `yaml:"seed"`
}

// StreamConfig holds the chunk stream settings.
type StreamConfig struct {
	// CellSize is the width of one cell in world units.
	CellSize float64 `yaml:"cell_size"`

	// SnapDistance is how close, in world units, the agent must get to a door.
	SnapDistance float64 `yaml:"snap_distance"`

	// TickHz is how many times per second the daemon ticks the controller.
	TickHz int `yaml:"tick_hz"`
}

// ServerConfig holds the daemon's listener settings.
type ServerConfig struct {
	Address   string          `yaml:"address"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// CatalogConfig locates the room template catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`

	// Source, when set, is a go-getter address (https://, git::, s3::, a
	// local path, ...) the catalog is fetched from into Path at startup.
	Source string `yaml:"source"`
}

// DefaultConfig returns the configuration the engine was tuned with.
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			Width:         40,
			Height:        20,
			Gutter:        2,
			Iterations:    15,
			MinimumSize:   4,
			MinimumRatio:  0.45,
			SplitRetries:  30,
			CorridorWidth: 4,
			Seed:          "5ML3875MwgFzyejjoFV9i",
		},
		Stream: StreamConfig{
			CellSize:     1,
			SnapDistance: 1,
			TickHz:       10,
		},
		Server: ServerConfig{
			Address: ":4444",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 4096,
			},
		},
		Catalog: CatalogConfig{
			Path: "data/catalog.json",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Fields the file leaves out
// keep their defaults; a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Stream.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// Validate rejects stream settings the controller cannot work with. Cell size
// and snap distance must be positive and finite.
func (s StreamConfig) Validate() error {
	if !(s.CellSize > 0) || math.IsInf(s.CellSize, 0) {
		return fmt.Errorf("stream.cell_size must be positive, got %v", s.CellSize)
	}
	if !(s.SnapDistance > 0) || math.IsInf(s.SnapDistance, 0) {
		return fmt.Errorf("stream.snap_distance must be positive, got %v", s.SnapDistance)
	}
	if s.TickHz < 0 {
		return fmt.Errorf("stream.tick_hz must not be negative, got %d", s.TickHz)
	}
	return nil
}

// ToDungeon returns the generation parameters bound to catalog.
func (g GenerationConfig) ToDungeon(catalog *dungeon.Catalog) dungeon.Config {
	return dungeon.Config{
		Width:         g.Width,
		Height:        g.Height,
		Gutter:        g.Gutter,
		Iterations:    g.Iterations,
		MinimumSize:   g.MinimumSize,
		MinimumRatio:  g.MinimumRatio,
		SplitRetries:  g.SplitRetries,
		CorridorWidth: g.CorridorWidth,
		Seed:          g.Seed,
		Catalog:       catalog,
	}
}

// ToStream returns the controller settings.
func (s StreamConfig) ToStream() stream.Config {
	return stream.Config{CellSize: s.CellSize, SnapDistance: s.SnapDistance}
}

// TickInterval returns the time between controller ticks.
func (s StreamConfig) TickInterval() time.Duration {
	if s.TickHz <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.TickHz)
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		// Wildcard allows all origins
		if allowed == "*" {
			return true
		}
		// Exact match
		if allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	// Remove trailing slash if present
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
