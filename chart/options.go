package chart

import (
	"gonum.org/v1/plot/vg"
)

const (
	// DefaultTileWidth と DefaultTileHeight は 1 グラフあたりの大きさ
	DefaultTileWidth  = 12 * vg.Centimeter
	DefaultTileHeight = 9 * vg.Centimeter
)

type options struct {
	superposed bool
	ncols      int
	width      vg.Length
	height     vg.Length
}

// Option configures how outcomes are laid out.
type Option func(*options)

// WithSuperposed draws every outcome on a single plot. Axis labels of the
// last outcome win and each legend entry is prefixed by its graph title.
func WithSuperposed(superposed bool) Option {
	return func(o *options) {
		o.superposed = superposed
	}
}

// WithColumns sets the number of tile columns. n <= 0 selects len/3+1.
func WithColumns(n int) Option {
	return func(o *options) {
		o.ncols = n
	}
}

// WithTileSize sets the size of one tile (or of the superposed plot).
func WithTileSize(w, h vg.Length) Option {
	return func(o *options) {
		if w > 0 && h > 0 {
			o.width, o.height = w, h
		}
	}
}
