//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gibbs

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/sbcrane/InferRolesGo/internal/str"
)

// Constants - the per-iteration sampling constants shared by every chain
type Constants struct {
	NumThemes int
	NumTopics int
	Alpha     []float64
	Beta      float64
}

// ChainResult - what one chain hands back after a pass: the ±1 deltas it made to its
// private matrix copy, the books it walked, how willing the sampler was to move, and
// the error that stopped it, if one did
type ChainResult struct {
	Changes     []int32 // len vocab*numtopics; row-major like the Dense it shadows
	Books       []*str.Book
	ChangeRatio float64
	Err         error
}

// SampleChain - one collapsed Gibbs pass over a sequence of books against a private
// copy of the word-topic matrix. Changes to the copy are also recorded as deltas so
// that the caller can merge chains run in parallel.
func SampleChain(books []*str.Book, twcopy *mat.Dense, cn Constants, seed int64) ChainResult {
	const (
		DEGEN = "SampleChain(): topic %d of %d holds no words and cannot be scored; use fewer topics or more corpus"
	)

	rng := rand.New(rand.NewSource(seed))

	vocab, _ := twcopy.Dims()
	changes := make([]int32, vocab*cn.NumTopics)

	normalizer := columntotals(twcopy, cn.NumTopics)

	// scratch buffer for the unnormalized probability of each topic
	dist := make([]float64, cn.NumTopics)

	same := 0
	different := 0

	for _, book := range books {
		booktotal := float64(book.TotalWords)

		for _, char := range book.Characters {
			chartotal := float64(char.NumWords())

			for idx := range char.WordTypes {
				w := int(char.WordTypes[idx])
				z := int(char.TopicAssigns[idx])

				// take the current word out of the counts before scoring
				wordrow := twcopy.RawRowView(w)
				wordrow[z] -= 1
				normalizer[z] -= 1

				total := 0.0
				for t := 0; t < cn.NumTopics; t++ {
					// an empty column zeroes the denominator and the scores go infinite;
					// the corpus is too small for this many topics
					if normalizer[t] <= 0 {
						return ChainResult{
							Books: books,
							Err:   fmt.Errorf(DEGEN, t, cn.NumTopics),
						}
					}
					var local float64
					if t < cn.NumThemes {
						local = float64(book.ThemeCounts[t])
						if t == z {
							local -= 1
						}
						local = local / booktotal
					} else {
						local = float64(char.RoleCounts[t-cn.NumThemes])
						if t == z {
							local -= 1
						}
						local = local / chartotal
					}
					p := (local + cn.Alpha[t]) * (wordrow[t] + cn.Beta) / normalizer[t]
					dist[t] = p
					total += p
				}

				choice := draw(rng, dist, total)

				if choice == z {
					same += 1
				} else {
					different += 1
				}

				char.AssignWord(idx, int32(choice))
				wordrow[choice] += 1
				normalizer[choice] += 1

				changes[w*cn.NumTopics+z] -= 1
				changes[w*cn.NumTopics+choice] += 1
			}
		}
	}

	return ChainResult{
		Changes:     changes,
		Books:       books,
		ChangeRatio: float64(different+1) / float64(same+1),
	}
}

// draw - one categorical sample from an unnormalized distribution
func draw(rng *rand.Rand, dist []float64, total float64) int {
	r := rng.Float64() * total
	cum := 0.0
	for t := range dist {
		cum += dist[t]
		if r < cum {
			return t
		}
	}
	// floating point residue can leave r just past the last cumulative step
	return len(dist) - 1
}

func columntotals(m *mat.Dense, numtopics int) []float64 {
	totals := make([]float64, numtopics)
	r, _ := m.Dims()
	for w := 0; w < r; w++ {
		row := m.RawRowView(w)
		for t := range row {
			totals[t] += row[t]
		}
	}
	return totals
}
