// Package unit separates the two coordinate spaces used by the generator.
//
// Grid values are measured in board cells (1.0 == one block). Pixel values are
// measured in rendered SVG pixels. The only way across the boundary is a Scale.
package unit

// Grid is a length or position in board cells.
type Grid float64

// Pixel is a length or position in rendered pixels.
type Pixel float64

// Scale is the number of pixels per grid unit (the block size).
type Scale float64

func (s Scale) ToGrid(p Pixel) Grid {
	if s == 0 {
		return 0
	}
	return Grid(float64(p) / float64(s))
}

func (s Scale) ToPixel(g Grid) Pixel {
	return Pixel(float64(g) * float64(s))
}

// Pixels returns the pixel size of n whole cells.
func (s Scale) Pixels(n int) Pixel {
	return Pixel(float64(n) * float64(s))
}

// Abs returns |g|.
func (g Grid) Abs() Grid {
	if g < 0 {
		return -g
	}
	return g
}
