// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/apwatch/internal/models"
)

var tokenKey = []byte("gdms:token")

// BadgerTokenStore keeps the access token in a BadgerDB directory.
type BadgerTokenStore struct {
	db *badger.DB
}

// OpenBadgerTokenStore opens (or creates) a BadgerDB at path. An empty path
// opens an in-memory store.
func OpenBadgerTokenStore(path string) (*BadgerTokenStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger token store: %w", err)
	}
	return &BadgerTokenStore{db: db}, nil
}

// LoadToken returns the stored token, or nil when none is stored.
func (s *BadgerTokenStore) LoadToken(_ context.Context) (*models.Token, error) {
	var tok models.Token
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tok)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("load token", err)
	}
	return &tok, nil
}

// SaveToken replaces the stored token.
func (s *BadgerTokenStore) SaveToken(_ context.Context, tok models.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tokenKey, data)
	})
	return storageErr("save token", err)
}

// badgerGCRatio is the discard ratio passed to RunValueLogGC.
const badgerGCRatio = 0.5

// RunGC reclaims value log space left by overwritten tokens. Having nothing
// to rewrite is not an error.
func (s *BadgerTokenStore) RunGC() error {
	err := s.db.RunValueLogGC(badgerGCRatio)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// Close closes the underlying BadgerDB.
func (s *BadgerTokenStore) Close() error {
	return s.db.Close()
}
