// Package scoreboard shows game scores fetched from a JSON feed. All
// network I/O happens during Update; Render only reads the cached result,
// so a dead feed keeps the last known scores on screen.
package scoreboard

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"time"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/plugin"
)

const cacheKey = "scoreboard.games"

type config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Font    string        `mapstructure:"font"`
	Size    float64       `mapstructure:"size"`
	Limit   int           `mapstructure:"limit"`
}

// Game is one scoreboard line as served by the feed.
type Game struct {
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Final     bool   `json:"final"`
}

// Scoreboard fetches and renders a list of games.
type Scoreboard struct {
	env    plugin.Env
	cfg    config
	client *http.Client
}

// New is the factory registered under "scoreboard".
func New(env plugin.Env, cfg plugin.Config) (plugin.Plugin, error) {
	var c config
	if err := cfg.Decode(&c); err != nil {
		return nil, &plugin.ConfigError{Plugin: "scoreboard", Err: err}
	}
	if c.URL == "" {
		return nil, plugin.Configf("scoreboard", "url", "required")
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Size <= 0 {
		c.Size = 13
	}
	if c.Limit <= 0 {
		c.Limit = 2
	}

	return &Scoreboard{
		env:    env,
		cfg:    c,
		client: &http.Client{Timeout: c.Timeout},
	}, nil
}

// Update fetches the feed and stages the games in the cache. On failure the
// previously cached games stay valid.
func (b *Scoreboard) Update(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.URL, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoreboard: feed returned %s", resp.Status)
	}

	var games []Game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return fmt.Errorf("scoreboard: decode feed: %w", err)
	}

	b.env.Cache.Set(cacheKey, games)
	b.env.Logger().Debug("scores fetched", "games", len(games))
	return nil
}

func (b *Scoreboard) Render(s matrix.Surface, forceClear bool) error {
	if !forceClear {
		s.Clear()
	}

	games, _ := b.env.Cache.GetDefault(cacheKey, []Game(nil)).([]Game)
	if len(games) == 0 {
		s.DrawText(2, 2, "no games", color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, b.env.Face(b.cfg.Font, b.cfg.Size))
		return nil
	}

	face := b.env.Face(b.cfg.Font, b.cfg.Size)
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	lineHeight := s.Bounds().Dy() / b.cfg.Limit
	for i, g := range games {
		if i >= b.cfg.Limit {
			break
		}
		line := fmt.Sprintf("%s %d-%d %s", g.Away, g.AwayScore, g.HomeScore, g.Home)
		if g.Final {
			line += " F"
		}
		s.DrawText(2, i*lineHeight, line, white, face)
	}
	return nil
}

var _ plugin.Plugin = (*Scoreboard)(nil)
