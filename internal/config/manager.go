package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	logx "remindbot/pkg/logx"
)

// Manager loads the config file and watches it for edits. The running
// process never swaps config; an edit only produces a restart-required warning.
type Manager struct {
	path   string
	lookup LookupFunc
	log    logx.Logger

	mu       sync.Mutex
	lastHash uint64
}

// NewManager returns a manager for path. An empty path means env-only mode:
// every setting comes from the environment (and .env in the working dir).
func NewManager(path string) *Manager {
	return &Manager{path: strings.TrimSpace(path), log: logx.Nop()}
}

func (m *Manager) SetLogger(log logx.Logger) {
	if log.IsZero() {
		log = logx.Nop()
	}
	m.log = log
}

// SetLookup replaces the environment source. Tests use it to avoid touching
// the process environment.
func (m *Manager) SetLookup(fn LookupFunc) { m.lookup = fn }

func (m *Manager) Path() string { return m.path }

// DotenvPath is the .env file consulted on load: next to the config file, or
// in the working directory in env-only mode.
func (m *Manager) DotenvPath() string {
	if m.path == "" {
		return ".env"
	}
	return filepath.Join(filepath.Dir(m.path), ".env")
}

func decode(path string, b []byte) (*Config, error) {
	jb, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(jb)) == 0 {
		return &Config{}, nil
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if dec.More() {
		return nil, fmt.Errorf("%s: invalid config: trailing data", path)
	}
	return &cfg, nil
}

// Load parses the file and applies environment overrides.
func (m *Manager) Load() (*Config, error) {
	var raw []byte
	if m.path != "" {
		b, err := os.ReadFile(m.path)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	cfg := &Config{}
	if raw != nil {
		c, err := decode(m.path, raw)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	lookup := m.lookup
	if lookup == nil {
		l, err := EnvLookup(m.DotenvPath())
		if err != nil {
			return nil, err
		}
		lookup = l
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.lastHash = hashBytes(raw)
	m.mu.Unlock()
	return cfg, nil
}

func hashBytes(b []byte) uint64 {
	if b == nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

// checkChanged re-reads the file and reports whether its content differs from
// what was loaded. Unparsable edits are reported too, so the operator learns
// about them before the next restart fails.
func (m *Manager) checkChanged() {
	b, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.log.Warn("config file removed; next restart will fail", logx.String("path", m.path))
			return
		}
		m.log.Warn("config re-read failed", logx.String("path", m.path), logx.Err(err))
		return
	}

	h := hashBytes(b)
	m.mu.Lock()
	unchanged := h == m.lastHash
	m.mu.Unlock()
	if unchanged {
		m.log.Debug("config unchanged", logx.String("path", m.path))
		return
	}

	if _, err := decode(m.path, b); err != nil {
		m.log.Warn("config changed but does not parse", logx.String("path", m.path), logx.Err(err))
		return
	}
	m.log.Warn("config file changed; restart remindbot to apply", logx.String("path", m.path))
}

// Watch blocks until ctx is done. It is a no-op in env-only mode.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		<-ctx.Done()
		return nil
	}
	dir := filepath.Dir(m.path)
	file := filepath.Base(m.path)

	const (
		restartBackoffBase = 250 * time.Millisecond
		restartBackoffMax  = 5 * time.Second
		debounceDelay      = 250 * time.Millisecond
	)
	backoff := restartBackoffBase
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	nextWait := func() time.Duration {
		wait := backoff + time.Duration(rng.Int63n(int64(backoff/2)+1))
		backoff = min(backoff*2, restartBackoffMax)
		return wait
	}

	// editors often write in several steps
	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, m.checkChanged)
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		w, err := fsnotify.NewWatcher()
		if err == nil {
			if err = w.Add(dir); err != nil {
				_ = w.Close()
			}
		}
		if err != nil {
			m.log.Warn("config watch init failed", logx.String("dir", dir), logx.Err(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(nextWait()):
				continue
			}
		}

		backoff = restartBackoffBase
		m.log.Debug("config watcher started", logx.String("dir", dir), logx.String("file", file))

		broken := false
		for !broken {
			select {
			case <-ctx.Done():
				_ = w.Close()
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					broken = true
					break
				}
				if strings.EqualFold(filepath.Base(ev.Name), file) &&
					ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					debounce()
				}
			case err, ok := <-w.Errors:
				if !ok {
					broken = true
					break
				}
				if errors.Is(err, fsnotify.ErrEventOverflow) {
					debounce()
					continue
				}
				if err != nil {
					m.log.Warn("config watch error", logx.String("dir", dir), logx.Err(err))
				}
			}
		}

		_ = w.Close()
		if ctx.Err() != nil {
			return nil
		}
		wait := nextWait()
		m.log.Warn("config watcher stopped; restarting", logx.String("dir", dir), logx.Duration("backoff", wait))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}
