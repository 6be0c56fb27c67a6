package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrInvalidName = errors.New("invalid game or pool name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Paths helper for default/game/pool files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "games", "default.yaml")
}
func (p Paths) GamePath(game string) string {
	return filepath.Join(p.BaseDir, "games", game+".yaml")
}
func (p Paths) PoolPath(game, pool string) string {
	return filepath.Join(p.BaseDir, "games", game, "pools", pool+".yaml")
}

// Loader reads YAML configs and layers default → game → pool.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: "game" or "game/pool"
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

func cacheKey(game, pool string) string {
	if pool == "" {
		return game
	}
	return game + "/" + pool
}

// LoadMerged loads and merges default → game → pool (pool optional).
// It returns the merged RawConfig without validation.
func (l *Loader) LoadMerged(game, pool string) (RawConfig, error) {
	if !namePattern.MatchString(game) || (pool != "" && !namePattern.MatchString(pool)) {
		return RawConfig{}, fmt.Errorf("%w: %q/%q", ErrInvalidName, game, pool)
	}
	key := cacheKey(game, pool)

	l.mu.RLock()
	cfg, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return cfg, nil
	}

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	gameCfg, err := readYAML(l.paths.GamePath(game))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read game %s: %w", game, err)
	}
	merged := mergeRaw(defCfg, gameCfg)
	if pool != "" {
		poolCfg, err := readYAML(l.paths.PoolPath(game, pool))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read pool %s/%s: %w", game, pool, err)
		}
		merged = mergeRaw(merged, poolCfg)
	}

	l.mu.Lock()
	l.cache[key] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// override replaces *dst with a copy of src when src is set.
func override[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// mergeRaw layers b over a: any field set in b wins. Slices are replaced, not appended.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	override(&out.Draw.PBase, b.Draw.PBase)
	override(&out.Draw.Pity, b.Draw.Pity)
	override(&out.Draw.Cushion, b.Draw.Cushion)

	if b.Draw.Soft != nil {
		soft := SoftCfg{}
		if a.Draw.Soft != nil {
			soft = *a.Draw.Soft
		}
		if b.Draw.Soft.Mode != "" {
			soft.Mode = b.Draw.Soft.Mode
		}
		override(&soft.StartAt, b.Draw.Soft.StartAt)
		override(&soft.StartPct, b.Draw.Soft.StartPct)
		override(&soft.Target, b.Draw.Soft.Target)
		override(&soft.Increment, b.Draw.Soft.Increment)
		if b.Draw.Soft.Easing != "" {
			soft.Easing = b.Draw.Soft.Easing
		}
		out.Draw.Soft = &soft
	}

	if b.Banner != nil {
		banner := BannerConfig{}
		if a.Banner != nil {
			banner = *a.Banner
		}
		if len(b.Banner.OffProbs) > 0 {
			banner.OffProbs = append([]float64(nil), b.Banner.OffProbs...)
		}
		if b.Banner.MaxOff != 0 {
			banner.MaxOff = b.Banner.MaxOff
		}
		out.Banner = &banner
	}

	if b.Tokens != nil {
		tokens := TokenConfig{}
		if a.Tokens != nil {
			tokens = *a.Tokens
		}
		if b.Tokens.Name != "" {
			tokens.Name = b.Tokens.Name
		}
		override(&tokens.PerDraw, b.Tokens.PerDraw)
		override(&tokens.PerTenDraw, b.Tokens.PerTenDraw)
		override(&tokens.PerNDraw, b.Tokens.PerNDraw)
		override(&tokens.N, b.Tokens.N)
		out.Tokens = &tokens
	}

	if b.Store != nil {
		store := StoreConfig{}
		if a.Store != nil {
			store = *a.Store
		}
		if b.Store.Currency != "" {
			store.Currency = b.Store.Currency
		}
		override(&store.TaxRate, b.Store.TaxRate)
		if len(b.Store.Packs) > 0 {
			store.Packs = append([]PackConfig(nil), b.Store.Packs...)
		}
		out.Store = &store
	}

	return out
}
