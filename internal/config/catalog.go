package config

import (
	"context"
	"fmt"

	getter "github.com/hashicorp/go-getter"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/logger"
)

// LoadCatalog fetches the catalog from Source when one is configured, then
// loads and validates the file at Path.
func (c CatalogConfig) LoadCatalog(ctx context.Context) (*dungeon.Catalog, error) {
	if c.Source != "" {
		logger.Info("Fetching room catalog", "source", c.Source, "path", c.Path)
		if err := getter.GetFile(c.Path, c.Source, getter.WithContext(ctx)); err != nil {
			return nil, fmt.Errorf("failed to fetch catalog from %s: %w", c.Source, err)
		}
	}
	return dungeon.LoadCatalog(c.Path)
}
