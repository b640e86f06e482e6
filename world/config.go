package world

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/spatial"
)

// Config configures the spatial layers of a world.
type Config struct {
	// The grid cell size of the tile layer.
	TileCellSize int

	// The grid cell size of the block layers.
	BlockCellSize int

	// The grid cell size of the entity layer.
	EntityCellSize int

	// The query volume up to which layers enumerate points instead of
	// scanning buckets. Zero uses spatial.DefaultVolumeThreshold.
	VolumeThreshold int
}

func DefaultConfig() Config {
	return Config{
		TileCellSize:    spatial.DefaultCellSize,
		BlockCellSize:   spatial.DefaultCellSize,
		EntityCellSize:  spatial.DefaultCellSize,
		VolumeThreshold: spatial.DefaultVolumeThreshold,
	}
}

func (c Config) Validate() error {
	switch {
	case c.TileCellSize <= 0:
		return errors.New("tile cell size must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("tile_cell_size", c.TileCellSize)

	case c.BlockCellSize <= 0:
		return errors.New("block cell size must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("block_cell_size", c.BlockCellSize)

	case c.EntityCellSize <= 0:
		return errors.New("entity cell size must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("entity_cell_size", c.EntityCellSize)

	case c.VolumeThreshold < 0:
		return errors.New("volume threshold must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("volume_threshold", c.VolumeThreshold)

	default:
		return nil
	}
}
