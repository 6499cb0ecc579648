package dungeon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RoomType tags a template with the role its room plays.
type RoomType string

const (
	RoomEntrance RoomType = "entrance"
	RoomMonsters RoomType = "monsters"
	RoomHeal     RoomType = "heal"
	RoomTreasure RoomType = "treasure"
	RoomBoss     RoomType = "boss"
)

// AllRoomTypes lists every type a complete catalog must provide.
var AllRoomTypes = []RoomType{RoomEntrance, RoomMonsters, RoomHeal, RoomTreasure, RoomBoss}

// IsValid returns true if the room type is a recognized value.
func (t RoomType) IsValid() bool {
	switch t {
	case RoomEntrance, RoomMonsters, RoomHeal, RoomTreasure, RoomBoss:
		return true
	}
	return false
}

// RoomTemplate is an authored room blueprint. Templates are catalog data and
// are never modified after loading.
type RoomTemplate struct {
	ID       string   `json:"id"`
	Type     RoomType `json:"type"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Tiles    [][]int  `json:"tiles"`
	Props    [][]int  `json:"props"`
	Monsters [][]int  `json:"monsters"`
}

// Area returns the number of cells the template covers.
func (t *RoomTemplate) Area() int {
	return t.Width * t.Height
}

// Fits reports whether the template fits inside r.
func (t *RoomTemplate) Fits(r Rect) bool {
	return t.Width <= r.Width && t.Height <= r.Height
}

// Validate checks that the three sub-grids are exactly Height x Width and
// that the tiles grid only holds raw ids, DeepHole through Wall.
func (t *RoomTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTemplate)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidTemplate, t.ID, t.Type)
	}
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: %s has size %dx%d", ErrInvalidTemplate, t.ID, t.Width, t.Height)
	}
	grids := []struct {
		name string
		grid [][]int
	}{
		{"tiles", t.Tiles},
		{"props", t.Props},
		{"monsters", t.Monsters},
	}
	for _, g := range grids {
		if len(g.grid) != t.Height {
			return fmt.Errorf("%w: %s %s has %d rows, want %d", ErrInvalidTemplate, t.ID, g.name, len(g.grid), t.Height)
		}
		for y, row := range g.grid {
			if len(row) != t.Width {
				return fmt.Errorf("%w: %s %s row %d has %d cells, want %d", ErrInvalidTemplate, t.ID, g.name, y, len(row), t.Width)
			}
		}
	}
	for y, row := range t.Tiles {
		for x, id := range row {
			if id < DeepHole || id > Wall {
				return fmt.Errorf("%w: %s tiles (%d,%d) holds %d, want %d..%d", ErrInvalidTemplate, t.ID, x, y, id, DeepHole, Wall)
			}
		}
	}
	return nil
}

// Catalog is the read-only set of templates available to the room placer.
type Catalog struct {
	templates []*RoomTemplate
	byType    map[RoomType][]*RoomTemplate
}

//go:embed catalog.schema.json
var catalogSchemaSource string

var catalogSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchemaSource)

// NewCatalog validates templates and indexes them by type. Template ids must
// be unique.
func NewCatalog(templates []*RoomTemplate) (*Catalog, error) {
	c := &Catalog{byType: make(map[RoomType][]*RoomTemplate)}
	ids := make(map[string]bool, len(templates))
	for _, t := range templates {
		if t == nil {
			return nil, fmt.Errorf("%w: nil template", ErrInvalidTemplate)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if ids[t.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidTemplate, t.ID)
		}
		ids[t.ID] = true
		c.templates = append(c.templates, t)
		c.byType[t.Type] = append(c.byType[t.Type], t)
	}
	return c, nil
}

// ParseCatalog decodes a JSON catalog document after validating it against
// the catalog schema.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	if err := catalogSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	var templates []*RoomTemplate
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewCatalog(templates)
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Templates returns every template in catalog order.
func (c *Catalog) Templates() []*RoomTemplate {
	return append([]*RoomTemplate(nil), c.templates...)
}

// ByType returns the templates of type t in catalog order.
func (c *Catalog) ByType(t RoomType) []*RoomTemplate {
	return c.byType[t]
}

// Require returns ErrMissingTemplateType if any of types has no template.
func (c *Catalog) Require(types ...RoomType) error {
	for _, t := range types {
		if len(c.byType[t]) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingTemplateType, t)
		}
	}
	return nil
}
