//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sbcrane/InferRolesGo/internal/gibbs"
	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

type topicsorter struct {
	W string
	V float64
}

// TopWords - the n highest-count words for one topic, in rank order
func TopWords(b *gibbs.Bundle, vocab []string, topic int, n int) []string {
	tss := make([]topicsorter, len(vocab))
	for w := range vocab {
		tss[w] = topicsorter{
			W: vocab[w],
			V: b.TW.At(w, topic),
		}
	}
	sort.SliceStable(tss, func(i, j int) bool {
		return tss[i].V > tss[j].V
	})

	if n > len(tss) {
		n = len(tss)
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = tss[i].W
	}
	return out
}

// TopicTableau - one line per topic: its id, top words, and total word count;
// themes are flagged as T, roles as R
func TopicTableau(b *gibbs.Bundle, vocab []string, n int) string {
	const (
		TMPL = "%s%d: %s   %d"
	)

	totals := b.ColumnTotals()

	lines := make([]string, b.NumTopics())
	for t := 0; t < b.NumTopics(); t++ {
		kind := "T"
		id := t
		if t >= b.NumThemes {
			kind = "R"
			id = t - b.NumThemes
		}
		topn := TopWords(b, vocab, t, n)
		lines[t] = fmt.Sprintf(TMPL, kind, id, strings.Join(topn, " | "), int(totals[t]))
	}
	return strings.Join(lines, "\n")
}

// PrintTopicWords - emit the topic tableau line by line
func PrintTopicWords(b *gibbs.Bundle, vocab []string, n int) {
	for _, line := range strings.Split(TopicTableau(b, vocab, n), "\n") {
		lnch.Msg.Emit(line, mm.MSGNOTE)
	}
}

// CharactersPerRole - how many characters have role R as their dominant role
func CharactersPerRole(b *gibbs.Bundle) []int {
	counter := make([]int, b.NumRoles)
	for _, bk := range b.Books {
		for _, ch := range bk.Characters {
			r := ch.DominantRole()
			if r >= 0 {
				counter[r] += 1
			}
		}
	}
	return counter
}

// ScaledTopicWeights - each topic's accumulated word count scaled against the largest topic
func ScaledTopicWeights(b *gibbs.Bundle) []float64 {
	totals := b.ColumnTotals()

	high := 0.0
	for _, t := range totals {
		if t > high {
			high = t
		}
	}

	scaled := make([]float64, len(totals))
	if high == 0 {
		return scaled
	}
	for i := range totals {
		scaled[i] = totals[i] / high
	}
	return scaled
}

// LabelPurity - grade the clustering against the labels in the corpus file: each role
// votes its majority label; the score is the share of labeled characters that agree.
// This is the "accuracy" figure of the run logs. Returns 0 when labels are trivial.
func LabelPurity(b *gibbs.Bundle) float64 {
	perrole := make(map[int]map[string]int)
	labels := make(map[string]bool)
	total := 0

	for _, bk := range b.Books {
		for _, ch := range bk.Characters {
			r := ch.DominantRole()
			if r < 0 || ch.Label == "" {
				continue
			}
			labels[ch.Label] = true
			if _, ok := perrole[r]; !ok {
				perrole[r] = make(map[string]int)
			}
			perrole[r][ch.Label] += 1
			total += 1
		}
	}

	// one label everywhere grades everything "right"; that is no grade at all
	if len(labels) < 2 || total == 0 {
		return 0
	}

	agree := 0
	for _, bylabel := range perrole {
		best := 0
		for _, ct := range bylabel {
			if ct > best {
				best = ct
			}
		}
		agree += best
	}

	return float64(agree) / float64(total)
}

// FinalSummary - the end-of-run report: roles first, then themes, then the purity line
func FinalSummary(b *gibbs.Bundle, vocab []string) {
	const (
		HDR   = "ROLES (character-level)"
		HDR2  = "THEMES (book-level)"
		RTMPL = "  role %d: %s   [%d characters] [weight %.2f]"
		TTMPL = "  theme %d: %s   [weight %.2f]"
		ACC   = "Base accuracy %.1f%% (majority-label purity over %d roles)"
	)

	chars := CharactersPerRole(b)
	weights := ScaledTopicWeights(b)

	lnch.Msg.Emit(HDR, mm.MSGMAND)
	for r := 0; r < b.NumRoles; r++ {
		t := b.NumThemes + r
		topn := TopWords(b, vocab, t, vv.TERMINALTOPICWIDTH)
		lnch.Msg.Emit(fmt.Sprintf(RTMPL, r, strings.Join(topn, ", "), chars[r], weights[t]), mm.MSGMAND)
	}

	lnch.Msg.Emit(HDR2, mm.MSGMAND)
	for t := 0; t < b.NumThemes; t++ {
		topn := TopWords(b, vocab, t, vv.TERMINALTOPICWIDTH)
		lnch.Msg.Emit(fmt.Sprintf(TTMPL, t, strings.Join(topn, ", "), weights[t]), mm.MSGMAND)
	}

	if p := LabelPurity(b); p > 0 {
		lnch.Msg.Emit(fmt.Sprintf(ACC, p*100, b.NumRoles), mm.MSGMAND)
	}
}

// DominantRoleTable - (character, label, dominant role) rows for storage and the monitor
func DominantRoleTable(b *gibbs.Bundle) []str.CharacterRole {
	var rows []str.CharacterRole
	for _, bk := range b.Books {
		for _, ch := range bk.Characters {
			rows = append(rows, str.CharacterRole{
				Character: ch.Name,
				Label:     ch.Label,
				Role:      ch.DominantRole(),
			})
		}
	}
	return rows
}
