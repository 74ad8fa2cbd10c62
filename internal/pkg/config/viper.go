package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ErrConfigTypeRequired is returned by NewViperFromBytes without a format.
var ErrConfigTypeRequired = errors.New("config type is required")

// Viper reads keys from a viper instance.
//
// Every key can be overridden by an environment variable named after it in
// upper case with dots replaced by underscores, e.g. DATABASE_URL for
// "database.url".
type Viper struct {
	mu sync.RWMutex
	v  *viper.Viper

	watcher *fsnotify.Watcher
	stopped chan struct{}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewViper reads the file at path, its format taken from the extension, and
// reloads it whenever it changes until Close. A reload that fails to parse
// keeps the previous values.
func NewViper(path string) (*Viper, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	// The directory is watched so editors that replace the file are seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	c := &Viper{v: v, watcher: w, stopped: make(chan struct{})}
	go c.watch(filepath.Clean(path))

	return c, nil
}

func (c *Viper) watch(path string) {
	defer close(c.stopped)

	for {
		select {
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			c.reload(path)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "path", path, "error", err)
		}
	}
}

func (c *Viper) reload(path string) {
	next := newViper()
	next.SetConfigFile(path)
	if err := next.ReadInConfig(); err != nil {
		slog.Error("config reload failed, keeping previous values", "path", path, "error", err)
		return
	}

	c.mu.Lock()
	c.v = next
	c.mu.Unlock()
	slog.Info("config reloaded", "path", path)
}

// NewViperFromBytes reads configuration of configType ("yaml", "json",
// "toml", ...) from data. It is never reloaded.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigTypeRequired
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (c *Viper) get() *viper.Viper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

func (c *Viper) GetInt(key string) int                { return c.get().GetInt(key) }
func (c *Viper) GetInt32(key string) int32            { return c.get().GetInt32(key) }
func (c *Viper) GetFloat64(key string) float64        { return c.get().GetFloat64(key) }
func (c *Viper) GetBool(key string) bool              { return c.get().GetBool(key) }
func (c *Viper) GetString(key string) string          { return c.get().GetString(key) }
func (c *Viper) GetDuration(key string) time.Duration { return c.get().GetDuration(key) }

func (c *Viper) GetSecond(key string) time.Duration {
	return time.Duration(c.get().GetInt64(key)) * time.Second
}

func (c *Viper) GetMinute(key string) time.Duration {
	return time.Duration(c.get().GetInt64(key)) * time.Minute
}

func (c *Viper) GetArray(key string) []string {
	v := c.get()

	var items []string
	switch raw := v.Get(key).(type) {
	case []any:
		for _, item := range raw {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case []string:
		items = raw
	default:
		items = strings.Split(v.GetString(key), ",")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Close stops watching the file. It is safe to call more than once.
func (c *Viper) Close() error {
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	<-c.stopped
	return err
}
