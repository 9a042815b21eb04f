//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package baseline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"

	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

// A flat LDA over the same characters gives the two-level model something to beat:
// it sees the identical documents but cannot split book effects from character effects.

// Run - fit a single-level LDA with themes+roles components and report its topics
func Run(books []*str.Book, vocab []string, topics int, iterations int, workers int) error {
	const (
		MSG1 = "baseline: fitting a flat %d-topic LDA over %d characters"
		MSG2 = "BASELINE TOPICS (single-level LDA)"
	)

	corpus := characterdocs(books, vocab)
	if len(corpus) == 0 {
		return fmt.Errorf("baseline.Run() has no documents to model")
	}

	lnch.Msg.Emit(fmt.Sprintf(MSG1, topics, len(corpus)), mm.MSGNOTE)

	vectoriser := nlp.NewCountVectoriser()

	lda := nlp.NewLatentDirichletAllocation(topics)
	lda.Processes = workers
	lda.Iterations = iterations
	lda.TransformationPasses = iterations / vv.BASELINEXFORMDIV

	pipeline := nlp.NewPipeline(vectoriser, lda)

	docsOverTopics, err := pipeline.FitTransform(corpus...)
	if err != nil {
		return fmt.Errorf("baseline.Run() failed to model topics: %w", err)
	}

	topicsOverWords := lda.Components()

	lnch.Msg.Emit(MSG2, mm.MSGMAND)
	printbaselinetopics(topics, topicsOverWords, vectoriser, docsOverTopics)

	return nil
}

// characterdocs - rebuild each character's kept words as one document string
func characterdocs(books []*str.Book, vocab []string) []string {
	var docs []string
	for _, bk := range books {
		for _, ch := range bk.Characters {
			words := make([]string, ch.NumWords())
			for i, id := range ch.WordTypes {
				words[i] = vocab[id]
			}
			docs = append(docs, strings.Join(words, " "))
		}
	}
	return docs
}

type baselinesorter struct {
	W string
	V float64
}

// printbaselinetopics - top words and dominant-document counts per baseline topic
func printbaselinetopics(ntopics int, topicsOverWords mat.Matrix, vectoriser *nlp.CountVectoriser, docsOverTopics mat.Matrix) {
	const (
		TMPL = "  topic %d: %s   [%d documents]"
	)

	tr, tc := topicsOverWords.Dims()

	vocab := make([]string, len(vectoriser.Vocabulary))
	for k, v := range vectoriser.Vocabulary {
		vocab[v] = k
	}

	docspertopic := dominantdocs(ntopics, docsOverTopics)

	for topic := 0; topic < tr; topic++ {
		tss := make([]baselinesorter, tc)
		for word := 0; word < tc; word++ {
			tss[word] = baselinesorter{
				W: vocab[word],
				V: topicsOverWords.At(topic, word),
			}
		}
		sort.SliceStable(tss, func(i, j int) bool {
			return tss[i].V > tss[j].V
		})

		top := vv.TERMINALTOPICWIDTH
		if top > len(tss) {
			top = len(tss)
		}
		ww := make([]string, top)
		for i := 0; i < top; i++ {
			ww[i] = tss[i].W
		}

		lnch.Msg.Emit(fmt.Sprintf(TMPL, topic, strings.Join(ww, ", "), docspertopic[topic]), mm.MSGMAND)
	}
}

// dominantdocs - N documents have topic X as their dominant topic
func dominantdocs(ntopics int, docsOverTopics mat.Matrix) []int {
	counter := make([]int, ntopics)
	dr, dc := docsOverTopics.Dims()
	for doc := 0; doc < dc; doc++ {
		max := float64(0)
		winner := 0
		for topic := 0; topic < dr; topic++ {
			if docsOverTopics.At(topic, doc) > max {
				winner = topic
				max = docsOverTopics.At(topic, doc)
			}
		}
		counter[winner] += 1
	}
	return counter
}
