package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

func TestFaceFallsBackWhenMissing(t *testing.T) {
	lib := NewLibrary(t.TempDir())

	face := lib.Face("no-such-font.ttf", 8)
	assert.Equal(t, basicfont.Face7x13, face)

	_, err := lib.Load("no-such-font.ttf", 8)
	require.Error(t, err)
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.ttf", []byte("not a font"))

	lib := NewLibrary(dir)
	_, err := lib.Load("bad.ttf", 8)
	require.Error(t, err)
	assert.Equal(t, basicfont.Face7x13, lib.Face("bad.ttf", 8))
}

func TestMeasure(t *testing.T) {
	face := Fallback()
	assert.Equal(t, 0, Measure(face, ""))
	assert.Equal(t, 7, Measure(face, "A"))
	assert.Equal(t, 21, Measure(face, "ABC"))
	assert.Equal(t, 13, Height(face))

	// nil face uses the fallback
	assert.Equal(t, 7, Measure(nil, "A"))
	assert.Equal(t, 13, Height(nil))
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}
