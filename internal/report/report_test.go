//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbcrane/InferRolesGo/internal/gibbs"
	"github.com/sbcrane/InferRolesGo/internal/str"
)

// one theme and two roles; the assignments are fixed so the counts are predictable

var testvocab = []string{"wrath", "sea", "shield", "wine"}

func addcharacter(bk *str.Book, name string, label string, words []int32, topics []int32) {
	ch := &str.Character{
		Name:         name,
		Label:        label,
		WordTypes:    words,
		TopicAssigns: topics,
		RoleCounts:   make([]int64, 2),
		Book:         bk,
		NumThemes:    1,
	}
	for _, z := range topics {
		if z < 1 {
			bk.ThemeCounts[z] += 1
		} else {
			ch.RoleCounts[z-1] += 1
		}
	}
	bk.AcceptCharacter(ch)
}

func testbundle() *gibbs.Bundle {
	iliad := &str.Book{Name: "iliad", NumThemes: 1, ThemeCounts: make([]int64, 1)}
	// achilles: three "wrath" as role 0, one "shield" as the theme
	addcharacter(iliad, "iliad|achilles", "hero", []int32{0, 0, 0, 2}, []int32{1, 1, 1, 0})
	// thersites: two "sea" and one "wine" as role 1
	addcharacter(iliad, "iliad|thersites", "villain", []int32{1, 1, 3}, []int32{2, 2, 2})

	odyssey := &str.Book{Name: "odyssey", NumThemes: 1, ThemeCounts: make([]int64, 1)}
	// odysseus: two "wrath" as role 0
	addcharacter(odyssey, "odyssey|odysseus", "hero", []int32{0, 0}, []int32{1, 1})

	return gibbs.NewBundle([]*str.Book{iliad, odyssey}, len(testvocab), 1, 2, 0.001, 0.1)
}

func TestTopWords(t *testing.T) {
	b := testbundle()

	// role 0 is topic 1: five "wrath", nothing else
	top := TopWords(b, testvocab, 1, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "wrath", top[0])

	// role 1 is topic 2: "sea" twice, "wine" once
	top = TopWords(b, testvocab, 2, 2)
	assert.Equal(t, []string{"sea", "wine"}, top)

	// asking for more words than the vocabulary holds returns the whole vocabulary
	assert.Len(t, TopWords(b, testvocab, 0, 100), len(testvocab))
}

func TestTopicTableau(t *testing.T) {
	b := testbundle()

	tableau := TopicTableau(b, testvocab, 3)
	lines := strings.Split(tableau, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "T0:"))
	assert.True(t, strings.HasPrefix(lines[1], "R0:"))
	assert.True(t, strings.HasPrefix(lines[2], "R1:"))
	assert.Contains(t, lines[1], "wrath")

	// the trailing figure on each line is the topic's accumulated word count
	assert.True(t, strings.HasSuffix(lines[1], "5"))
}

func TestCharactersPerRole(t *testing.T) {
	b := testbundle()
	assert.Equal(t, []int{2, 1}, CharactersPerRole(b))
}

func TestScaledTopicWeights(t *testing.T) {
	b := testbundle()

	w := ScaledTopicWeights(b)
	require.Len(t, w, 3)
	// role 0 holds the most words and scales to 1
	assert.Equal(t, 1.0, w[1])
	for _, v := range w {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestLabelPurity(t *testing.T) {
	b := testbundle()

	// role 0 is all "hero", role 1 all "villain": the clustering recovers the labels
	assert.Equal(t, 1.0, LabelPurity(b))
}

func TestLabelPurityNeedsTwoLabels(t *testing.T) {
	bk := &str.Book{Name: "solo", NumThemes: 1, ThemeCounts: make([]int64, 1)}
	addcharacter(bk, "solo|a", "same", []int32{0, 1}, []int32{1, 1})
	addcharacter(bk, "solo|b", "same", []int32{0, 1}, []int32{2, 2})
	b := gibbs.NewBundle([]*str.Book{bk}, len(testvocab), 1, 2, 0.001, 0.1)

	assert.Equal(t, 0.0, LabelPurity(b))
}

func TestDominantRoleTable(t *testing.T) {
	b := testbundle()

	rows := DominantRoleTable(b)
	require.Len(t, rows, 3)
	assert.Equal(t, str.CharacterRole{Character: "iliad|achilles", Label: "hero", Role: 0}, rows[0])
	assert.Equal(t, str.CharacterRole{Character: "iliad|thersites", Label: "villain", Role: 1}, rows[1])
	assert.Equal(t, str.CharacterRole{Character: "odyssey|odysseus", Label: "hero", Role: 0}, rows[2])
}

func TestTopicGraphHTML(t *testing.T) {
	// a single character keeps the scatter on its short path; the page still renders
	bk := &str.Book{Name: "solo", NumThemes: 1, ThemeCounts: make([]int64, 1)}
	addcharacter(bk, "solo|a", "x", []int32{0, 1, 2}, []int32{0, 1, 2})
	b := gibbs.NewBundle([]*str.Book{bk}, len(testvocab), 1, 2, 0.001, 0.1)

	html, err := TopicGraphHTML(b, "testmodel")
	require.NoError(t, err)
	assert.Contains(t, string(html), "echarts")
	assert.Contains(t, string(html), "testmodel")
}
