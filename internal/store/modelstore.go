//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/sbcrane/InferRolesGo/internal/gibbs"
	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/str"
)

//
// MODEL SNAPSHOTS
//

// Snapshot - a finished model flattened for storage: hyperparameters, vocabulary,
// the word-topic counts, and where every character ended up
type Snapshot struct {
	Name        string
	Fingerprint string
	Themes      int
	Roles       int
	Iterations  int
	AlphaMean   float64
	Alpha       []float64
	Beta        float64
	Vocabulary  []string
	Counts      []int64 // row-major vocab x (themes+roles)
	Assignments []str.CharacterRole
}

// ModelStore - the sqlite and postgres backends both look like this
type ModelStore interface {
	Init() error
	Check(fp string) (bool, error)
	Add(sn Snapshot) error
	Fetch(fp string) (Snapshot, error)
	Count() (int64, error)
	Reset() error
	Close()
}

// NewSnapshot - flatten a finished Bundle
func NewSnapshot(b *gibbs.Bundle, vocab []string, name string, iterations int, assignments []str.CharacterRole) Snapshot {
	numtopics := b.NumTopics()
	counts := make([]int64, b.VocabSize*numtopics)
	for w := 0; w < b.VocabSize; w++ {
		row := b.TW.RawRowView(w)
		for t := 0; t < numtopics; t++ {
			counts[w*numtopics+t] = int64(row[t])
		}
	}

	al := make([]float64, len(b.Alpha))
	copy(al, b.Alpha)

	return Snapshot{
		Name:        name,
		Fingerprint: NewFingerprint(),
		Themes:      b.NumThemes,
		Roles:       b.NumRoles,
		Iterations:  iterations,
		AlphaMean:   b.AlphaMean,
		Alpha:       al,
		Beta:        b.Beta,
		Vocabulary:  vocab,
		Counts:      counts,
		Assignments: assignments,
	}
}

// NewFingerprint - a 32-character hex id for one stored model
func NewFingerprint() string {
	return strings.Replace(uuid.New().String(), "-", "", -1)
}

// pack - marshal and gzip a snapshot; compressed is c. 25% of original
func pack(sn Snapshot) ([]byte, error) {
	const (
		MSG2 = "%s compression: %dK -> %dK (-> %.1f%%)"
		GZ   = gzip.BestSpeed
	)

	eb, err := json.Marshal(sn)
	if err != nil {
		return nil, fmt.Errorf("pack() failed to marshal snapshot '%s': %w", sn.Fingerprint, err)
	}

	l1 := len(eb)

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, GZ)
	if err != nil {
		return nil, err
	}
	if _, err = zw.Write(eb); err != nil {
		return nil, err
	}
	if err = zw.Close(); err != nil {
		return nil, err
	}

	b := buf.Bytes()
	l2 := len(b)
	lnch.Msg.Emit(fmt.Sprintf(MSG2, sn.Fingerprint, l1/1024, l2/1024, (float32(l2)/float32(l1))*100), mm.MSGPEEK)

	return b, nil
}

// unpack - the and-back of pack
func unpack(blob []byte) (Snapshot, error) {
	var sn Snapshot

	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return sn, fmt.Errorf("unpack() could not read the compressed snapshot: %w", err)
	}
	decompr, err := io.ReadAll(zr)
	if err != nil {
		return sn, err
	}
	if err = zr.Close(); err != nil {
		return sn, err
	}

	if err = json.Unmarshal(decompr, &sn); err != nil {
		return sn, fmt.Errorf("unpack() could not unmarshal the snapshot: %w", err)
	}

	return sn, nil
}
