// Package pixel implements the packed frame buffer formats pushed to matrix
// display hardware.
//
// The color and image types are compatible with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces, so the standard drawing machinery
// works on them unchanged.
package pixel
