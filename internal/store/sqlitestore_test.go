//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbcrane/InferRolesGo/internal/gibbs"
	"github.com/sbcrane/InferRolesGo/internal/str"
)

func testsnapshot(t *testing.T) Snapshot {
	t.Helper()

	rng := rand.New(rand.NewSource(3))

	bk := &str.Book{Name: "book0", NumThemes: 2, ThemeCounts: make([]int64, 2)}
	ch := &str.Character{
		Name:         "book0|char0",
		Label:        "hero",
		WordTypes:    make([]int32, 40),
		TopicAssigns: make([]int32, 40),
		RoleCounts:   make([]int64, 2),
		Book:         bk,
		NumThemes:    2,
	}
	for i := range ch.WordTypes {
		ch.WordTypes[i] = int32(rng.Intn(10))
		z := int32(rng.Intn(4))
		ch.TopicAssigns[i] = z
		if z < 2 {
			bk.ThemeCounts[z] += 1
		} else {
			ch.RoleCounts[z-2] += 1
		}
	}
	bk.AcceptCharacter(ch)

	b := gibbs.NewBundle([]*str.Book{bk}, 10, 2, 2, 0.001, 0.1)
	vocab := []string{"w0", "w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9"}
	rows := []str.CharacterRole{{Character: "book0|char0", Label: "hero", Role: 1}}

	return NewSnapshot(b, vocab, "testmodel", 25, rows)
}

func TestNewFingerprint(t *testing.T) {
	a := NewFingerprint()
	b := NewFingerprint()
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	sn := testsnapshot(t)

	blob, err := pack(sn)
	require.NoError(t, err)

	back, err := unpack(blob)
	require.NoError(t, err)
	assert.Equal(t, sn, back)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Init())

	sn := testsnapshot(t)

	found, err := s.Check(sn.Fingerprint)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Add(sn))

	found, err = s.Check(sn.Fingerprint)
	require.NoError(t, err)
	assert.True(t, found)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	back, err := s.Fetch(sn.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, sn.Name, back.Name)
	assert.Equal(t, sn.Counts, back.Counts)
	assert.Equal(t, sn.Assignments, back.Assignments)

	_, err = s.Fetch("nosuchfingerprint")
	assert.Error(t, err)
}

func TestSQLiteStoreReset(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Init())

	require.NoError(t, s.Add(testsnapshot(t)))
	require.NoError(t, s.Reset())

	// Count() recreates the table on its way to reporting zero
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
