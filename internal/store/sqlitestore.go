//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

// the pure-go sqlite driver keeps the binary cgo-free

// SQLiteStore - model snapshots in a single-file sqlite db
type SQLiteStore struct {
	DB *sql.DB
}

// NewSQLiteStore - open (or create) the model db at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteStore() could not open '%s': %w", path, err)
	}
	return &SQLiteStore{DB: db}, nil
}

// Init - create vv.MODELTABLENAME if it is not there yet
func (s *SQLiteStore) Init() error {
	const (
		CREATE = `
			CREATE TABLE IF NOT EXISTS %s
			(
			  fingerprint character(32),
			  modelname   text,
			  storedsize  int,
			  modeldata   blob
			)`
	)
	_, err := s.DB.Exec(fmt.Sprintf(CREATE, vv.MODELTABLENAME))
	if err != nil {
		return fmt.Errorf("SQLiteStore.Init() failed: %w", err)
	}
	return nil
}

// Check - has a model with this fingerprint already been stored?
func (s *SQLiteStore) Check(fp string) (bool, error) {
	const (
		Q = `SELECT fingerprint FROM %s WHERE fingerprint = ? LIMIT 1`
	)

	var found string
	err := s.DB.QueryRow(fmt.Sprintf(Q, vv.MODELTABLENAME), fp).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return false, s.Init()
		}
		return false, err
	}
	return true, nil
}

// Add - pack a snapshot and insert it
func (s *SQLiteStore) Add(sn Snapshot) error {
	const (
		MSG1 = "SQLiteStore.Add(): "
		INS  = `
			INSERT INTO %s
				(fingerprint, modelname, storedsize, modeldata)
			VALUES (?, ?, ?, ?)`
	)

	blob, err := pack(sn)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(fmt.Sprintf(INS, vv.MODELTABLENAME), sn.Fingerprint, sn.Name, len(blob), blob)
	if err != nil {
		return fmt.Errorf("SQLiteStore.Add() failed for '%s': %w", sn.Fingerprint, err)
	}

	lnch.Msg.Emit(MSG1+sn.Fingerprint, mm.MSGPEEK)
	return nil
}

// Fetch - get a stored snapshot back by fingerprint
func (s *SQLiteStore) Fetch(fp string) (Snapshot, error) {
	const (
		Q = `SELECT modeldata FROM %s WHERE fingerprint = ? LIMIT 1`
	)

	var blob []byte
	err := s.DB.QueryRow(fmt.Sprintf(Q, vv.MODELTABLENAME), fp).Scan(&blob)
	if err != nil {
		return Snapshot{}, fmt.Errorf("SQLiteStore.Fetch() found nothing for '%s': %w", fp, err)
	}

	return unpack(blob)
}

// Count - number of stored models
func (s *SQLiteStore) Count() (int64, error) {
	const (
		Q = `SELECT COUNT(fingerprint) FROM %s`
	)

	var n int64
	err := s.DB.QueryRow(fmt.Sprintf(Q, vv.MODELTABLENAME)).Scan(&n)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return 0, s.Init()
		}
		return 0, err
	}
	return n, nil
}

// Reset - drop the model table
func (s *SQLiteStore) Reset() error {
	const (
		MSG1 = "SQLiteStore.Reset() dropped "
		E    = `DROP TABLE IF EXISTS %s`
	)

	_, err := s.DB.Exec(fmt.Sprintf(E, vv.MODELTABLENAME))
	if err != nil {
		return err
	}
	lnch.Msg.Emit(MSG1+vv.MODELTABLENAME, mm.MSGNOTE)
	return nil
}

func (s *SQLiteStore) Close() {
	_ = s.DB.Close()
}
