package marquee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/cache"
	"github.com/GridGlow/matrix/plugin"
)

func TestTextRequired(t *testing.T) {
	_, err := New(plugin.Env{}, plugin.Config{})
	require.Error(t, err)
	assert.True(t, plugin.IsConfigError(err))
}

func TestScrollsAcrossFrames(t *testing.T) {
	env := plugin.Env{}
	p, err := New(env, plugin.Config{"text": "breaking news, more at eleven"})
	require.NoError(t, err)
	require.NoError(t, p.Update(context.Background()))

	s := matrix.NewMock(32, 8)
	require.NoError(t, p.Render(s, true))
	require.NoError(t, p.Render(s, true))

	texts := s.CallsTo("DrawText")
	require.Len(t, texts, 2)
	// content enters from the right edge and moves one step left per frame
	assert.Equal(t, 32, texts[0].Args[0])
	assert.Equal(t, 31, texts[1].Args[0])
}

func TestCacheOverridesConfiguredText(t *testing.T) {
	store := cache.New()
	store.Set("marquee.text", "override")

	p, err := New(plugin.Env{Cache: store}, plugin.Config{"text": "fallback"})
	require.NoError(t, err)
	require.NoError(t, p.Update(context.Background()))

	s := matrix.NewMock(128, 8)
	require.NoError(t, p.Render(s, true))
	assert.Equal(t, "override", s.CallsTo("DrawText")[0].Args[2])
}
