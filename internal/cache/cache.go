// Package cache stores persona experience payloads so repeated validations
// of the same page skip the AI provider. Entries are keyed by the request
// content and stored zstd-compressed on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/pagecrit/pagecrit/internal/models"
)

// Cache provides caching for validation results.
type Cache struct {
	dir string
	mu  sync.Mutex

	encOnce sync.Once
	enc     *zstd.Encoder
	dec     *zstd.Decoder
}

// New creates a cache instance rooted at dir. The directory is created
// lazily on the first Put.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Key generates a cache key for a validation request. The key covers the
// URL, the persona set (order matters — it is the execution order), and the
// free-form runner options, so any change invalidates the entry.
func Key(url string, personas []models.Persona, options map[string]any) (string, error) {
	h := sha256.New()
	h.Write([]byte(url))

	personasJSON, err := json.Marshal(personas)
	if err != nil {
		return "", fmt.Errorf("marshaling personas for cache key: %w", err)
	}
	h.Write(personasJSON)

	// json.Marshal sorts map keys, keeping the key stable across runs.
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("marshaling options for cache key: %w", err)
	}
	h.Write(optionsJSON)

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached experiences for key, or ok=false on a miss.
// Corrupt entries count as misses.
func (c *Cache) Get(key string) ([]models.PersonaExperience, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	compressed, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}

	if err := c.initCodecs(); err != nil {
		return nil, false
	}
	data, err := c.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false
	}

	var experiences []models.PersonaExperience
	if err := json.Unmarshal(data, &experiences); err != nil {
		return nil, false
	}
	return experiences, true
}

// Put stores experiences under key.
func (c *Cache) Put(key string, experiences []models.PersonaExperience) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.Marshal(experiences)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	if err := c.initCodecs(); err != nil {
		return err
	}
	compressed := c.enc.EncodeAll(data, nil)

	if err := os.WriteFile(c.path(key), compressed, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := filepath.Glob(filepath.Join(c.dir, "*.json.zst"))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.Remove(entry); err != nil {
			return fmt.Errorf("removing cache entry: %w", err)
		}
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json.zst")
}

func (c *Cache) initCodecs() error {
	var err error
	c.encOnce.Do(func() {
		c.enc, err = zstd.NewWriter(nil)
		if err != nil {
			return
		}
		c.dec, err = zstd.NewReader(nil)
	})
	if err != nil {
		return fmt.Errorf("initializing zstd codecs: %w", err)
	}
	if c.enc == nil || c.dec == nil {
		return fmt.Errorf("zstd codecs unavailable")
	}
	return nil
}
