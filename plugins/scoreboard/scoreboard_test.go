package scoreboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/cache"
	"github.com/GridGlow/matrix/plugin"
)

const feed = `[
	{"home": "Duke", "away": "UNC", "home_score": 68, "away_score": 71, "final": true},
	{"home": "Kansas", "away": "Gonzaga", "home_score": 40, "away_score": 38, "final": false}
]`

func TestConfigRequiresURL(t *testing.T) {
	_, err := New(plugin.Env{}, plugin.Config{})
	require.Error(t, err)
	assert.True(t, plugin.IsConfigError(err))
}

func TestUpdateFetchesAndRenderDraws(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	store := cache.New()
	env := plugin.Env{Cache: store}
	p, err := New(env, plugin.Config{"url": srv.URL})
	require.NoError(t, err)

	require.NoError(t, p.Update(context.Background()))
	require.True(t, store.Has("scoreboard.games"))

	s := matrix.NewMock(128, 32)
	require.NoError(t, p.Render(s, true))

	texts := s.CallsTo("DrawText")
	require.Len(t, texts, 2)
	assert.Equal(t, "UNC 71-68 Duke F", texts[0].Args[2])
	assert.Equal(t, "Gonzaga 38-40 Kansas", texts[1].Args[2])
}

func TestUpdateFailureKeepsCachedGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := cache.New()
	store.Set("scoreboard.games", []Game{{Home: "Duke", Away: "UNC"}})

	env := plugin.Env{Cache: store}
	p, err := New(env, plugin.Config{"url": srv.URL})
	require.NoError(t, err)

	require.Error(t, p.Update(context.Background()))

	// the stale scores still render
	s := matrix.NewMock(128, 32)
	require.NoError(t, p.Render(s, true))
	require.Len(t, s.CallsTo("DrawText"), 1)
	assert.Equal(t, "UNC 0-0 Duke", s.CallsTo("DrawText")[0].Args[2])
}

func TestRenderWithoutDataShowsPlaceholder(t *testing.T) {
	p, err := New(plugin.Env{Cache: cache.New()}, plugin.Config{"url": "http://127.0.0.1:0/feed"})
	require.NoError(t, err)

	s := matrix.NewMock(128, 32)
	require.NoError(t, p.Render(s, true))
	require.Len(t, s.CallsTo("DrawText"), 1)
	assert.Equal(t, "no games", s.CallsTo("DrawText")[0].Args[2])
}
