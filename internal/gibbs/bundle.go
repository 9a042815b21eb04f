//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gibbs

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

// Bundle - everything one sampling run owns: the books, the word-by-topic count
// matrix, and the hyperparameters. The matrix holds small integer counts in float64
// cells; additions of ±1 are exact there, so Audit() can compare for equality.
type Bundle struct {
	Books     []*str.Book
	TW        *mat.Dense // rows: word ids; columns: topic ids
	VocabSize int
	NumThemes int
	NumRoles  int
	Alpha     []float64
	AlphaMean float64
	Beta      float64
}

func (b *Bundle) NumTopics() int {
	return b.NumThemes + b.NumRoles
}

// NewBundle - build the word-topic matrix from the current assignments in the books
func NewBundle(books []*str.Book, vocabsize int, themes int, roles int, alpha float64, beta float64) *Bundle {
	numtopics := themes + roles

	al := make([]float64, numtopics)
	for i := range al {
		al[i] = alpha
	}

	b := &Bundle{
		Books:     books,
		TW:        mat.NewDense(vocabsize, numtopics, nil),
		VocabSize: vocabsize,
		NumThemes: themes,
		NumRoles:  roles,
		Alpha:     al,
		AlphaMean: alpha,
		Beta:      beta,
	}

	for _, bk := range books {
		for _, ch := range bk.Characters {
			for idx := range ch.WordTypes {
				w := int(ch.WordTypes[idx])
				z := int(ch.TopicAssigns[idx])
				b.TW.Set(w, z, b.TW.At(w, z)+1)
			}
		}
	}

	return b
}

// TotalWords - every word in every character of every book
func (b *Bundle) TotalWords() int {
	t := 0
	for _, bk := range b.Books {
		t += bk.TotalWords
	}
	return t
}

// ColumnTotals - per-topic word counts across the whole vocabulary
func (b *Bundle) ColumnTotals() []float64 {
	totals := make([]float64, b.NumTopics())
	r, _ := b.TW.Dims()
	for w := 0; w < r; w++ {
		row := b.TW.RawRowView(w)
		for t := range row {
			totals[t] += row[t]
		}
	}
	return totals
}

// Audit - rebuild the word-topic matrix from the assignments and insist it matches.
// This runs on every vv.AUDITEVERY-th iteration as a sanity check on the merge math.
func (b *Bundle) Audit() error {
	const (
		BADBOOK = "audit: book '%s' claims %d words but its characters hold %d"
		BADMTRX = "audit: word-topic matrix does not match the topic assignments"
	)

	alt := mat.NewDense(b.VocabSize, b.NumTopics(), nil)
	for _, bk := range b.Books {
		charactercount := 0
		for _, ch := range bk.Characters {
			charactercount += ch.NumWords()
			for idx := range ch.WordTypes {
				w := int(ch.WordTypes[idx])
				z := int(ch.TopicAssigns[idx])
				alt.Set(w, z, alt.At(w, z)+1)
			}
		}
		if bk.TotalWords != charactercount {
			return fmt.Errorf(BADBOOK, bk.Name, bk.TotalWords, charactercount)
		}
	}

	if !mat.Equal(alt, b.TW) {
		return errors.New(BADMTRX)
	}

	return nil
}

// ReestimateAlpha - rescale alpha by the observed topic sizes: the per-topic column
// totals over their mean, clamped, times the original alpha. Runs late in the chain
// (after vv.REWEIGHTAFTER) so the early random assignments never drive the prior.
func (b *Bundle) ReestimateAlpha() {
	totals := b.ColumnTotals()

	mean := 0.0
	for _, t := range totals {
		mean += t
	}
	mean = mean / float64(len(totals))
	if mean == 0 {
		return
	}

	for i := range totals {
		w := totals[i] / mean
		if w > vv.REWEIGHTCEILING {
			w = vv.REWEIGHTCEILING
		} else if w < vv.REWEIGHTFLOOR {
			w = vv.REWEIGHTFLOOR
		}
		b.Alpha[i] = w * b.AlphaMean
	}
}
