package target

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache holds the fetcher target configurations loaded from a directory of
// YAML files, one file per platform. Lookups are case-insensitive on the
// platform name so CSV rows like "Kraken" match kraken.yml.
type Cache struct {
	targetsDir string
	cache      map[string]*Target
	mu         sync.RWMutex
}

func NewCache(targetsDir string) *Cache {
	return &Cache{
		targetsDir: targetsDir,
		cache:      make(map[string]*Target),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.targetsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.targetsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive target name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		targetName := fileName[:len(fileName)-4]

		t, err := c.LoadTarget(targetName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Target configuration loaded", "target", targetName, "strategy", t.Strategy)
	}

	return nil
}

func (c *Cache) LoadTarget(targetName string) (*Target, error) {
	configFile := c.getTargetFilePath(targetName)
	t, err := c.parseTarget(configFile)
	if err != nil {
		return nil, err
	}

	// Set target name from parameter
	t.Name = targetName

	if err := c.validateTarget(t); err != nil {
		return nil, fmt.Errorf("invalid target %s: %w", configFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[strings.ToLower(t.Name)] = t

	return t, nil
}

// GetTarget returns the target configured for a platform name, or false
// when the platform has no fetcher configured.
func (c *Cache) GetTarget(platformName string) (*Target, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.cache[strings.ToLower(strings.TrimSpace(platformName))]
	return t, ok
}

func (c *Cache) GetTargets() map[string]*Target {
	c.mu.RLock()
	defer c.mu.RUnlock()

	targetsCopy := make(map[string]*Target, len(c.cache))
	for k, v := range c.cache {
		targetsCopy[k] = v
	}
	return targetsCopy
}

func (c *Cache) GetTargetCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) parseTarget(configFile string) (*Target, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var t Target
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if t.Settings.Timeout == 0 {
		if t.Strategy == StrategyPage {
			t.Settings.Timeout = 30
		} else {
			t.Settings.Timeout = 10
		}
	}
	if t.Settings.Settle == 0 {
		t.Settings.Settle = 3
	}

	return &t, nil
}

func (c *Cache) validateTarget(t *Target) error {
	if t == nil {
		return fmt.Errorf("target is nil")
	}

	switch t.Strategy {
	case StrategyAPI:
		if t.API.URL == "" {
			return fmt.Errorf("api strategy requires api.url")
		}
	case StrategyPage:
		if len(t.Page.URLs) == 0 {
			return fmt.Errorf("page strategy requires at least one page URL")
		}
		for i, page := range t.Page.URLs {
			if page.URL == "" {
				return fmt.Errorf("page URL at index %d is empty", i)
			}
			if len(page.Selectors) == 0 {
				return fmt.Errorf("page URL at index %d has no selectors", i)
			}
		}
	case StrategyFeed:
		if t.Feed.URL == "" {
			return fmt.Errorf("feed strategy requires feed.url")
		}
	default:
		return fmt.Errorf("unknown strategy: %q", t.Strategy)
	}

	nonNegativeFields := map[string]int{
		"timeout": t.Settings.Timeout,
		"settle":  t.Settings.Settle,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}

func (c *Cache) getTargetFilePath(targetName string) string {
	return filepath.Join(c.targetsDir, targetName+".yml")
}
