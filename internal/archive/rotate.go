package archive

import (
	"image"

	"github.com/disintegration/imaging"
)

// Rotate applies a review rotation angle to img. The angle meaning is a hard
// contract with the manual review tool: 90 is a counter-clockwise quarter
// turn, 180 a half turn, 270 a clockwise quarter turn. Any other value
// leaves the image untouched.
func Rotate(img image.Image, angle int) image.Image {
	switch angle {
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	}
	return img
}
