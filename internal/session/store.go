// Package session maintains the client-side session record across page
// loads. The record arrives exactly once, as name/email query parameters on
// the landing URL after the gateway's callback redirect; from then on it
// lives in durable client storage until logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"coursegate/internal/storage"
	"coursegate/pkg/platform/sentinel"
)

// storageKey is the single fixed key the session record persists under.
const storageKey = "user"

// Record is the persisted representation of "who is logged in". A record
// missing either field is treated as absent, never as a partial session.
type Record struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Valid reports whether the record constitutes an active session.
func (r Record) Valid() bool {
	return r.Name != "" && r.Email != ""
}

// Store owns the session record. Records are replace-only: a new handoff
// always overwrites whatever was persisted before, field by field.
type Store struct {
	kv storage.KV
}

// NewStore builds a session store over the given client storage.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Bootstrap runs the page-load protocol: if pageURL carries both name and
// email query parameters, a fresh handoff is persisted and the returned URL
// has those parameters stripped (the caller rewrites the visible URL with
// it). Otherwise any previously persisted record is restored. The boolean
// reports whether a session is active.
func (s *Store) Bootstrap(pageURL *url.URL) (Record, *url.URL, bool, error) {
	q := pageURL.Query()
	rec := Record{Name: q.Get("name"), Email: q.Get("email")}
	if !rec.Valid() {
		restored, ok, err := s.Restore()
		return restored, pageURL, ok, err
	}

	if err := s.persist(rec); err != nil {
		return Record{}, pageURL, false, err
	}

	q.Del("name")
	q.Del("email")
	stripped := *pageURL
	stripped.RawQuery = q.Encode()
	return rec, &stripped, true, nil
}

// Restore loads the previously persisted record, if any. Absence is not an
// error; a persisted record with a missing field counts as absent.
func (s *Store) Restore() (Record, bool, error) {
	data, err := s.kv.Get(storageKey)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil || !rec.Valid() {
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Logout deletes the persisted record. Deleting an absent record is a no-op.
func (s *Store) Logout() error {
	return s.kv.Delete(storageKey)
}

func (s *Store) persist(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	return s.kv.Put(storageKey, data)
}
