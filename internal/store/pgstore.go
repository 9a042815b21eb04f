//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

// PGStore - the same table shape as SQLiteStore, but in postgres for people who keep
// their models on a shared machine
type PGStore struct {
	Pool *pgxpool.Pool
}

// NewPGStore - connect with the credentials from the "-pg" flag
func NewPGStore(pl str.PostgresLogin) (*PGStore, error) {
	const (
		UPT = "postgres://%s:%s@%s:%d/%s"
	)

	url := fmt.Sprintf(UPT, pl.User, pl.Pass, pl.Host, pl.Port, pl.DBName)
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		return nil, fmt.Errorf("NewPGStore() could not connect to '%s:%d/%s': %w", pl.Host, pl.Port, pl.DBName, err)
	}
	return &PGStore{Pool: pool}, nil
}

func (s *PGStore) Init() error {
	const (
		CREATE = `
			CREATE TABLE %s
			(
			  fingerprint character(32),
			  modelname   text,
			  storedsize  int,
			  modeldata   bytea
			)`
		EXISTS = "already exists"
	)

	_, err := s.Pool.Exec(context.Background(), fmt.Sprintf(CREATE, vv.MODELTABLENAME))
	if err != nil && !strings.Contains(err.Error(), EXISTS) {
		return fmt.Errorf("PGStore.Init() failed: %w", err)
	}
	return nil
}

func (s *PGStore) Check(fp string) (bool, error) {
	const (
		Q   = `SELECT fingerprint FROM %s WHERE fingerprint = $1 LIMIT 1`
		DNE = "does not exist"
	)

	var found string
	err := s.Pool.QueryRow(context.Background(), fmt.Sprintf(Q, vv.MODELTABLENAME), fp).Scan(&found)
	if err != nil {
		if strings.Contains(err.Error(), DNE) {
			return false, s.Init()
		}
		// "no rows in result set" if you did not find the fingerprint
		return false, nil
	}
	return true, nil
}

func (s *PGStore) Add(sn Snapshot) error {
	const (
		MSG1 = "PGStore.Add(): "
		INS  = `
			INSERT INTO %s
				(fingerprint, modelname, storedsize, modeldata)
			VALUES ($1, $2, $3, $4)`
	)

	blob, err := pack(sn)
	if err != nil {
		return err
	}

	_, err = s.Pool.Exec(context.Background(), fmt.Sprintf(INS, vv.MODELTABLENAME), sn.Fingerprint, sn.Name, len(blob), blob)
	if err != nil {
		return fmt.Errorf("PGStore.Add() failed for '%s': %w", sn.Fingerprint, err)
	}

	lnch.Msg.Emit(MSG1+sn.Fingerprint, mm.MSGPEEK)
	return nil
}

func (s *PGStore) Fetch(fp string) (Snapshot, error) {
	const (
		Q = `SELECT modeldata FROM %s WHERE fingerprint = $1 LIMIT 1`
	)

	var blob []byte
	err := s.Pool.QueryRow(context.Background(), fmt.Sprintf(Q, vv.MODELTABLENAME), fp).Scan(&blob)
	if err != nil {
		return Snapshot{}, fmt.Errorf("PGStore.Fetch() found nothing for '%s': %w", fp, err)
	}

	return unpack(blob)
}

func (s *PGStore) Count() (int64, error) {
	const (
		Q   = `SELECT COUNT(fingerprint) FROM %s`
		DNE = "does not exist"
	)

	var n int64
	err := s.Pool.QueryRow(context.Background(), fmt.Sprintf(Q, vv.MODELTABLENAME)).Scan(&n)
	if err != nil {
		if strings.Contains(err.Error(), DNE) {
			return 0, s.Init()
		}
		return 0, err
	}
	return n, nil
}

func (s *PGStore) Reset() error {
	const (
		MSG1 = "PGStore.Reset() dropped "
		E    = `DROP TABLE IF EXISTS %s`
	)

	_, err := s.Pool.Exec(context.Background(), fmt.Sprintf(E, vv.MODELTABLENAME))
	if err != nil {
		return err
	}
	lnch.Msg.Emit(MSG1+vv.MODELTABLENAME, mm.MSGNOTE)
	return nil
}

func (s *PGStore) Close() {
	s.Pool.Close()
}
