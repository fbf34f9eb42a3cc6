package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autotrader-search/models"
	"autotrader-search/utils"
)

const (
	cacheExt = ".json"
	// Keeps file names under the 255-byte limit of common filesystems.
	maxKeyLen    = 200
	keyPrefixLen = 180
)

// ListingCache is a filesystem-backed TTL store of extracted listings, one
// JSON file per listing URL. Freshness comes from the file's mtime.
type ListingCache struct {
	dir    string
	ttl    time.Duration
	now    func() time.Time
	logger *utils.Logger
}

// CacheOption customises a ListingCache.
type CacheOption func(*ListingCache)

// WithClock replaces the wall clock used for freshness checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *ListingCache) { c.now = now }
}

// NewListingCache creates the cache directory if needed. Failing to create
// or access it is the one unrecoverable startup error.
func NewListingCache(dir string, ttl time.Duration, logger *utils.Logger, opts ...CacheOption) (*ListingCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cache: create dir %q: %w", dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cache: stat dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cache: %q is not a directory", dir)
	}

	c := &ListingCache{dir: dir, ttl: ttl, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the cache directory.
func (c *ListingCache) Dir() string {
	return c.dir
}

// HasFresh reports whether id has an entry written within the TTL.
func (c *ListingCache) HasFresh(id string) bool {
	info, err := os.Stat(c.path(id))
	if err != nil || info.IsDir() {
		return false
	}
	return c.now().Sub(info.ModTime()) < c.ttl
}

// Load returns the stored listing for id when the entry is fresh. A stale,
// missing or unreadable entry is reported as absent.
func (c *ListingCache) Load(id string) (*models.Listing, bool) {
	if !c.HasFresh(id) {
		return nil, false
	}

	data, err := os.ReadFile(c.path(id))
	if err != nil {
		c.logger.Debug("[cache] Read failed for %s: %v", id, err)
		return nil, false
	}

	var l models.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		c.logger.Warn("[cache] Corrupt entry for %s ignored: %v", id, err)
		return nil, false
	}
	if l.IsEmpty() {
		return nil, false
	}
	return &l, true
}

// Store writes l under id, replacing any previous entry and resetting its
// age. The write goes through a temp file and a rename so readers never see
// a partial entry.
func (c *ListingCache) Store(id string, l *models.Listing) error {
	if id == "" {
		return fmt.Errorf("cache: empty id")
	}
	if l == nil || l.IsEmpty() {
		return fmt.Errorf("cache: refusing to store listing without url for %q", id)
	}

	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", id, err)
	}

	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cache: write %q: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cache: close %q: %w", id, err)
	}
	if err := os.Rename(tmpName, c.path(id)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cache: rename %q: %w", id, err)
	}
	return nil
}

func (c *ListingCache) path(id string) string {
	return filepath.Join(c.dir, CacheKey(id)+cacheExt)
}

// CacheKey maps a listing URL to a file name stem. ASCII letters and digits
// are kept; every other byte, '_' included, becomes '_' plus two upper-case
// hex digits. Since '_' only ever starts an escape, distinct URLs always
// give distinct keys.
//
// Keys longer than maxKeyLen are cut to keyPrefixLen bytes and suffixed with
// '-' and the SHA-256 of the full URL. '-' never appears in an unshortened
// key, so the two forms cannot collide with each other; two long URLs collide
// only if their SHA-256 digests do.
func CacheKey(id string) string {
	const hexDigits = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(id) * 2)
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		default:
			b.WriteByte('_')
			b.WriteByte(hexDigits[ch>>4])
			b.WriteByte(hexDigits[ch&0x0F])
		}
	}

	key := b.String()
	if len(key) <= maxKeyLen {
		return key
	}

	sum := sha256.Sum256([]byte(id))
	prefix := key[:keyPrefixLen]
	// Do not split an escape sequence.
	if i := strings.LastIndexByte(prefix, '_'); i >= keyPrefixLen-2 {
		prefix = prefix[:i]
	}
	return prefix + "-" + hex.EncodeToString(sum[:])
}
