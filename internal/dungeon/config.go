package dungeon

import "fmt"

// Config holds the parameters of one chunk generation call.
type Config struct {
	Width         int      // chunk width in cells
	Height        int      // chunk height in cells
	Gutter        int      // border kept clear of partitioning
	Iterations    int      // partition depth
	MinimumSize   int      // smallest container side
	MinimumRatio  float64  // smallest side ratio a split may produce
	SplitRetries  int      // offsets tried before a container stays whole
	CorridorWidth int      // corridor thickness in cells
	Seed          string   // chunk seed
	Catalog       *Catalog // room templates
}

// DefaultConfig returns the parameters the engine was tuned with.
func DefaultConfig(seed string, catalog *Catalog) Config {
	return Config{
		Width:         40,
		Height:        20,
		Gutter:        2,
		Iterations:    15,
		MinimumSize:   4,
		MinimumRatio:  0.45,
		SplitRetries:  30,
		CorridorWidth: 4,
		Seed:          seed,
		Catalog:       catalog,
	}
}

// WithSeed returns a copy of c that generates the chunk for seed.
func (c Config) WithSeed(seed string) Config {
	c.Seed = seed
	return c
}

// Validate reports ErrConfigInvalid for parameters generation cannot honour.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrConfigInvalid, c.Width, c.Height)
	case c.Gutter < 0:
		return fmt.Errorf("%w: gutter %d is negative", ErrConfigInvalid, c.Gutter)
	case c.Width <= 2*c.Gutter || c.Height <= 2*c.Gutter:
		return fmt.Errorf("%w: gutter %d leaves no room in %dx%d", ErrConfigInvalid, c.Gutter, c.Width, c.Height)
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations %d is negative", ErrConfigInvalid, c.Iterations)
	case c.MinimumSize <= 0:
		return fmt.Errorf("%w: minimum size %d must be positive", ErrConfigInvalid, c.MinimumSize)
	case c.MinimumRatio < 0:
		return fmt.Errorf("%w: minimum ratio %v is negative", ErrConfigInvalid, c.MinimumRatio)
	case c.SplitRetries < 0:
		return fmt.Errorf("%w: split retries %d is negative", ErrConfigInvalid, c.SplitRetries)
	case c.CorridorWidth <= 0:
		return fmt.Errorf("%w: corridor width %d must be positive", ErrConfigInvalid, c.CorridorWidth)
	case c.Catalog == nil:
		return fmt.Errorf("%w: no template catalog", ErrConfigInvalid)
	}
	return nil
}

// Inset returns the region the partitioner splits: the chunk minus its gutter.
func (c Config) Inset() Rect {
	return Rect{X: c.Gutter, Y: c.Gutter, Width: c.Width - 2*c.Gutter, Height: c.Height - 2*c.Gutter}
}
