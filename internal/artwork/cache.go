// ABOUTME: Cover art cache for embedded album artwork
// ABOUTME: Saves cover images to a content-addressed temp directory
package artwork

import (
	"crypto/sha256"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Cache persists embedded cover art to a temp directory so UI layers
// can reference it by path. Files are content-addressed, so reloading
// the same track hits the cache instead of rewriting.
type Cache struct {
	mu          sync.Mutex
	cacheDir    string
	currentPath string
}

// NewCache creates a cover art cache under the OS temp directory
func NewCache() (*Cache, error) {
	cacheDir := filepath.Join(os.TempDir(), "chorus-artwork")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{cacheDir: cacheDir}, nil
}

// Save writes cover image bytes to the cache and returns the file path
func (c *Cache) Save(mime string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	hash := sha256.Sum256(data)
	filename := fmt.Sprintf("%x%s", hash[:8], extensionFor(mime))

	c.mu.Lock()
	defer c.mu.Unlock()

	cachePath := filepath.Join(c.cacheDir, filename)
	if _, err := os.Stat(cachePath); err == nil {
		c.currentPath = cachePath
		return cachePath, nil
	}

	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save artwork: %w", err)
	}

	log.Printf("Artwork saved: %s", cachePath)
	c.currentPath = cachePath
	return cachePath, nil
}

// CurrentPath returns the path of the most recently saved artwork
func (c *Cache) CurrentPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPath
}

// Cleanup removes all cached artwork
func (c *Cache) Cleanup() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentPath = ""
	return os.RemoveAll(c.cacheDir)
}

// extensionFor maps an image MIME type to a file extension
func extensionFor(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
