package dungeon

import "errors"

var (
	ErrConfigInvalid       = errors.New("dungeon: invalid generation config")
	ErrMissingTemplateType = errors.New("dungeon: catalog has no template of a required type")
	ErrInvalidTemplate     = errors.New("dungeon: invalid room template")
	ErrPlacementSkipped    = errors.New("dungeon: no template fits container")
	ErrOutOfBounds         = errors.New("dungeon: cell outside chunk")
)
