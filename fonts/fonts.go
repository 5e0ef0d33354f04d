// Package fonts loads the pixel typefaces plugins draw text with.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Library loads TrueType fonts from a directory and hands out faces at
// requested sizes. A missing or unparseable font degrades to the fallback
// face instead of failing the frame.
type Library struct {
	dir   string
	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	name string
	size float64
}

// NewLibrary returns a library rooted at dir. The directory does not need to
// exist; every lookup then falls back.
func NewLibrary(dir string) *Library {
	return &Library{
		dir:   dir,
		fonts: make(map[string]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Fallback is the face used when an asset is unavailable.
func Fallback() font.Face {
	return basicfont.Face7x13
}

// Face returns the named font at the given size, or the fallback face if the
// font cannot be loaded.
func (l *Library) Face(name string, size float64) font.Face {
	face, err := l.load(name, size)
	if err != nil {
		return Fallback()
	}
	return face
}

// Load returns the named font at the given size, or an error describing why
// it is unavailable.
func (l *Library) Load(name string, size float64) (font.Face, error) {
	return l.load(name, size)
}

func (l *Library) load(name string, size float64) (font.Face, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := faceKey{name: name, size: size}
	if face, ok := l.faces[key]; ok {
		return face, nil
	}

	f, ok := l.fonts[name]
	if !ok {
		data, err := os.ReadFile(filepath.Join(l.dir, name))
		if err != nil {
			return nil, fmt.Errorf("fonts: %w", err)
		}
		if f, err = truetype.Parse(data); err != nil {
			return nil, fmt.Errorf("fonts: parse %s: %w", name, err)
		}
		l.fonts[name] = f
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	l.faces[key] = face
	return face, nil
}

// Measure returns the horizontal advance of text in pixels.
func Measure(face font.Face, text string) int {
	if face == nil {
		face = Fallback()
	}
	return font.MeasureString(face, text).Ceil()
}

// Height returns the line height of face in pixels.
func Height(face font.Face) int {
	if face == nil {
		face = Fallback()
	}
	return face.Metrics().Height.Ceil()
}
