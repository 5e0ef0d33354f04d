//go:build !linux

package framebuffer

import (
	"errors"

	"github.com/GridGlow/matrix"
)

var ErrNotSupported = errors.New("framebuffer: not supported")

func Open(_ string) (matrix.Surface, error) {
	return nil, ErrNotSupported
}
