// Package apikeys manages the document-service API keys the user has
// registered and which of them are connected.
package apikeys

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/smhrd/smartsearch/internal/models"
)

// StorageKey is where the key list is persisted
const StorageKey = "apikeys"

// Relative-time labels written on connect and disconnect
const (
	LabelJustNow      = "방금 전"
	LabelDisconnected = "방금 연결 해제됨"
)

var (
	// ErrNotFound is returned for an unknown key ID
	ErrNotFound = errors.New("api key not found")
	// ErrEmptyName is returned when a key is saved without a name
	ErrEmptyName = errors.New("key name is required")
	// ErrEmptyKey is returned when a key is saved without a value
	ErrEmptyKey = errors.New("api key is required")
)

// Persister is a string key/value store
type Persister interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Store holds the registered API keys in display order
type Store struct {
	keys    []models.APIKey
	persist Persister
	now     func() time.Time
}

// NewStore loads persisted keys, falling back to defaults when nothing was
// saved yet or the saved value is unreadable
func NewStore(defaults []models.APIKey, p Persister) *Store {
	s := &Store{keys: slices.Clone(defaults), persist: p, now: time.Now}
	if p == nil {
		return s
	}
	raw, ok, err := p.Get(StorageKey)
	if err != nil {
		slog.Warn("load api keys", "err", err)
		return s
	}
	if !ok {
		return s
	}
	var saved []models.APIKey
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		slog.Warn("discarding malformed api keys", "err", err)
		return s
	}
	s.keys = saved
	return s
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}
	data, err := json.Marshal(s.keys)
	if err != nil {
		slog.Warn("encode api keys", "err", err)
		return
	}
	if err := s.persist.Set(StorageKey, string(data)); err != nil {
		slog.Warn("save api keys", "err", err)
	}
}

// Keys returns every key in display order
func (s *Store) Keys() []models.APIKey { return slices.Clone(s.keys) }

// Get returns the key with the given ID
func (s *Store) Get(id string) (models.APIKey, error) {
	i := s.index(id)
	if i < 0 {
		return models.APIKey{}, ErrNotFound
	}
	return s.keys[i], nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.keys, func(k models.APIKey) bool { return k.ID == id })
}

// HasConnected reports whether any key is connected
func (s *Store) HasConnected() bool {
	return slices.ContainsFunc(s.keys, func(k models.APIKey) bool { return k.IsConnected })
}

// Connected returns the connected keys in display order
func (s *Store) Connected() []models.APIKey {
	var out []models.APIKey
	for _, k := range s.keys {
		if k.IsConnected {
			out = append(out, k)
		}
	}
	return out
}

// Token is the value of the first connected key. The drive tree is rebuilt
// whenever it changes.
func (s *Store) Token() string {
	for _, k := range s.keys {
		if k.IsConnected {
			return k.Key
		}
	}
	return ""
}

// Connect marks a key connected and just used
func (s *Store) Connect(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	now := s.now()
	s.keys[i].IsConnected = true
	s.keys[i].LastUsed = LabelJustNow
	s.keys[i].LastUsedAt = &now
	s.save()
	return nil
}

// Disconnect marks a key disconnected
func (s *Store) Disconnect(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.keys[i].IsConnected = false
	s.keys[i].LastUsed = LabelDisconnected
	s.save()
	return nil
}

// DisconnectAll disconnects every key. Only keys that were connected get the
// disconnected label.
func (s *Store) DisconnectAll() {
	for i := range s.keys {
		if s.keys[i].IsConnected {
			s.keys[i].LastUsed = LabelDisconnected
		}
		s.keys[i].IsConnected = false
	}
	s.save()
}

// Add registers a new key. Name and key are trimmed; the new key starts
// connected.
func (s *Store) Add(name, key string) (models.APIKey, error) {
	name, key, err := clean(name, key)
	if err != nil {
		return models.APIKey{}, err
	}
	now := s.now()
	id := now.UnixMilli()
	for s.index(strconv.FormatInt(id, 10)) >= 0 {
		id++
	}
	k := models.APIKey{
		ID:          strconv.FormatInt(id, 10),
		Name:        name,
		Key:         key,
		MaskedKey:   Mask(key),
		Created:     now.Format("2006-01-02"),
		LastUsed:    LabelJustNow,
		LastUsedAt:  &now,
		IsConnected: true,
	}
	s.keys = append(s.keys, k)
	s.save()
	return k, nil
}

// Update renames a key and replaces its value
func (s *Store) Update(id, name, key string) (models.APIKey, error) {
	i := s.index(id)
	if i < 0 {
		return models.APIKey{}, ErrNotFound
	}
	name, key, err := clean(name, key)
	if err != nil {
		return models.APIKey{}, err
	}
	s.keys[i].Name = name
	s.keys[i].Key = key
	s.keys[i].MaskedKey = Mask(key)
	s.save()
	return s.keys[i], nil
}

// Delete removes a key
func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.keys = slices.Delete(s.keys, i, i+1)
	s.save()
	return nil
}

// Replace swaps the whole key list
func (s *Store) Replace(keys []models.APIKey) {
	s.keys = slices.Clone(keys)
	s.save()
}

func clean(name, key string) (string, string, error) {
	name = strings.TrimSpace(name)
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", ErrEmptyKey
	}
	if name == "" {
		return "", "", ErrEmptyName
	}
	return name, key, nil
}

// maskFill is the run of asterisks between the visible prefix and suffix
const maskFill = "***************"

// Mask keeps the first three and last four characters of a key
func Mask(key string) string {
	r := []rune(key)
	if len(r) <= 7 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:3]) + maskFill + string(r[len(r)-4:])
}

// LastUsedLabel is the label shown for a key, with the absolute age appended
// when the store knows it
func LastUsedLabel(k models.APIKey) string {
	if k.LastUsedAt == nil {
		return k.LastUsed
	}
	return fmt.Sprintf("%s (%s)", k.LastUsed, humanize.Time(*k.LastUsedAt))
}
