// Package trialstore archives trial records in a bbolt file, one bucket per
// game keyed by record id.
package trialstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	"ludeme/game"
)

var ErrNotFound = errors.New("trial not found")

type Store struct {
	filename string
	db       *bolt.DB
}

// Open opens or creates the archive at filename.
func Open(filename string) (*Store, error) {
	db, err := bolt.Open(filename, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open trial store %s: %w", filename, err)
	}
	return &Store{filename: filename, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes a record, replacing any record with the same id.
func (s *Store) Save(rec game.Record) error {
	js, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(rec.Game))
		if err != nil {
			return err
		}
		return b.Put([]byte(rec.ID), js)
	})
	if err != nil {
		return err
	}
	log.Debug().Str("game", rec.Game).Str("id", rec.ID).Int("moves", len(rec.Moves)).Msg("stored trial")
	return nil
}

// Load reads one record.
func (s *Store) Load(gameName, id string) (game.Record, error) {
	var rec game.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(gameName))
		if b == nil {
			return ErrNotFound
		}
		js := b.Get([]byte(id))
		if js == nil {
			return ErrNotFound
		}
		return json.Unmarshal(js, &rec)
	})
	if err != nil {
		return rec, fmt.Errorf("%s/%s: %w", gameName, id, err)
	}
	return rec, nil
}

// List returns the ids stored for a game in key order.
func (s *Store) List(gameName string) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(gameName))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// Games returns the names of the games with stored trials.
func (s *Store) Games() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// Delete removes one record. Deleting a missing record is not an error.
func (s *Store) Delete(gameName, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(gameName))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id))
	})
}
