// ABOUTME: Persists the session in the XDG config directory, wrapped with its issuing endpoint
// ABOUTME: A stored session under a different base URL or project id is purged as stale

package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mstanton/taskstash/internal/config"
)

// Backend is the storage capability the store writes through. Absence of
// persistent storage degrades to the in-memory backend, never to an error
// the caller has to handle.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Remove() error
}

// envelope wraps the persisted session with the configuration it was
// issued under, so a later load against different configuration is
// detectable as stale.
type envelope struct {
	APIURL    string   `json:"api_url"`
	ProjectID int64    `json:"project_id"`
	Session   *Session `json:"session"`
}

// Store loads, saves, and clears the persisted session.
type Store struct {
	backend Backend
}

// NewStore creates a store over the given backend.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// DefaultStore persists under the XDG config directory, falling back to
// process memory when no config directory is resolvable.
func DefaultStore() *Store {
	dir := DefaultConfigDir()
	if dir == "" {
		return NewStore(&memoryBackend{})
	}
	return NewStore(&fileBackend{path: filepath.Join(dir, "session.json")})
}

// DefaultConfigDir returns the config directory following the XDG spec,
// or "" when no home directory is resolvable.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskstash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskstash")
}

// Save persists the session together with the configuration it was issued
// under. The bare session is never written on its own.
func (st *Store) Save(sess *Session, cfg *config.Config) error {
	env := envelope{
		APIURL:    cfg.APIURL,
		ProjectID: cfg.ProjectID,
		Session:   sess,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	return st.backend.Write(data)
}

// Load returns the persisted session, or nil when none is stored or the
// stored one belongs to a different endpoint or project. Stale or
// unreadable state is purged. A legacy bare-session blob without the
// envelope is accepted as always-matching; the next Save rewrites it in
// the enveloped shape.
func (st *Store) Load(cfg *config.Config) *Session {
	data, err := st.backend.Read()
	if err != nil || len(data) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Session != nil {
		if env.APIURL != cfg.APIURL {
			st.Clear()
			return nil
		}
		if env.ProjectID != 0 && cfg.HasProjectID && env.ProjectID != cfg.ProjectID {
			st.Clear()
			return nil
		}
		return env.Session
	}

	// Legacy shape: the bare session without the envelope.
	var legacy Session
	if err := json.Unmarshal(data, &legacy); err == nil && legacy.Token != "" {
		return &legacy
	}

	st.Clear()
	return nil
}

// Clear removes the persisted session. Clearing an empty store is a no-op.
func (st *Store) Clear() {
	_ = st.backend.Remove()
}

// fileBackend stores the session as one JSON file with owner-only perms.
type fileBackend struct {
	path string
}

func (f *fileBackend) Read() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *fileBackend) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *fileBackend) Remove() error {
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// memoryBackend keeps the session for the life of the process only.
type memoryBackend struct {
	data []byte
}

func (m *memoryBackend) Read() ([]byte, error) {
	if m.data == nil {
		return nil, os.ErrNotExist
	}
	return m.data, nil
}

func (m *memoryBackend) Write(data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memoryBackend) Remove() error {
	m.data = nil
	return nil
}
