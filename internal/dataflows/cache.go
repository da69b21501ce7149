package dataflows

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// CacheManager handles file-based caching of raw provider payloads.
// Entries expire by file mtime; a disabled cache is a no-op on both paths.
type CacheManager struct {
	cacheDir string
	ttl      time.Duration
	enabled  atomic.Bool
	log      *zap.Logger
}

// NewCacheManager creates a cache manager rooted at cacheDir.
func NewCacheManager(cacheDir string, ttl time.Duration, enabled bool, log *zap.Logger) *CacheManager {
	if log == nil {
		log = zap.NewNop()
	}
	cm := &CacheManager{
		cacheDir: cacheDir,
		ttl:      ttl,
		log:      log,
	}
	cm.enabled.Store(enabled)
	return cm
}

// SetEnabled toggles the cache at runtime, used by config hot reload.
// Existing entries are kept; a re-enabled cache picks them back up.
func (cm *CacheManager) SetEnabled(enabled bool) {
	cm.enabled.Store(enabled)
}

// cacheKey derives a stable file name from the request parameters.
func (cm *CacheManager) cacheKey(source, method string, params any) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s_%s_%x.json", source, method, hash)
}

// Get loads a cached payload into result. Returns false on any miss:
// disabled cache, absent file, expired entry, or undecodable content.
func (cm *CacheManager) Get(source, method string, params, result any) bool {
	if !cm.enabled.Load() {
		return false
	}

	key := cm.cacheKey(source, method, params)
	filePath := filepath.Join(cm.cacheDir, key)

	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > cm.ttl {
		os.Remove(filePath)
		return false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, result); err != nil {
		cm.log.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		os.Remove(filePath)
		return false
	}
	cm.log.Debug("cache hit", zap.String("key", key))
	return true
}

// Set stores a payload in the cache. Write failures are logged, not
// returned; caching is best effort and must never fail a fetch.
func (cm *CacheManager) Set(source, method string, params, data any) {
	if !cm.enabled.Load() {
		return
	}

	key := cm.cacheKey(source, method, params)
	filePath := filepath.Join(cm.cacheDir, key)

	if err := os.MkdirAll(cm.cacheDir, 0755); err != nil {
		cm.log.Warn("cache dir unavailable", zap.Error(err))
		return
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		cm.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		cm.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
