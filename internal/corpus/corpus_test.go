//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the census counts a word once per character, so "alpha alpha alpha" and "alpha"
// weigh the same; the test corpus is built so the expected ranking is unambiguous

func writetestcorpus(t *testing.T, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return p
}

// BuildVocabulary writes its census beside the binary; keep that out of the source tree
func intmpdir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestBuildVocabularyRanking(t *testing.T) {
	intmpdir(t)

	pad := strings.Repeat(" filler", 10)
	lines := []string{
		"iliad|achilles hero wrath wrath wrath spear" + pad,
		"iliad|hector hero wrath shield spear" + pad,
		"odyssey|odysseus hero wrath sea" + pad,
	}

	v, err := BuildVocabulary(writetestcorpus(t, lines), 3, 100)
	require.NoError(t, err)

	// wrath: 3 characters; filler: 3; spear: 2; ties resolve first-seen
	require.Equal(t, 3, v.Size())
	assert.Equal(t, []string{"wrath", "filler", "spear"}, v.Words)
	assert.Equal(t, int32(0), v.Lexicon["wrath"])

	_, ok := v.Lexicon["sea"]
	assert.False(t, ok)
}

func TestBuildVocabularyMaxLines(t *testing.T) {
	intmpdir(t)

	lines := []string{
		"a|one x alpha beta",
		"a|two x gamma delta",
	}

	v, err := BuildVocabulary(writetestcorpus(t, lines), 100, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, v.Size())
	_, ok := v.Lexicon["gamma"]
	assert.False(t, ok)
}

func TestBuildVocabularySkipsMalformedLines(t *testing.T) {
	intmpdir(t)

	lines := []string{
		"loneid",
		"a|one x alpha beta",
	}

	v, err := BuildVocabulary(writetestcorpus(t, lines), 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Size())
}

func TestLoadCharacters(t *testing.T) {
	intmpdir(t)

	words := func(n int) string {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteString(fmt.Sprintf(" w%d", i%20))
		}
		return sb.String()
	}

	lines := []string{
		"iliad|achilles hero" + words(30),
		"iliad|hector hero" + words(25),
		"odyssey|odysseus hero" + words(40),
		"iliad|nobody extra w0 w1", // below the minimum; dropped
	}

	src := writetestcorpus(t, lines)
	v, err := BuildVocabulary(src, 100, 100)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	books, err := LoadCharacters(src, v, 4, 3, 100, rng)
	require.NoError(t, err)

	require.Len(t, books, 2)
	assert.Equal(t, "iliad", books[0].Name)
	assert.Equal(t, "odyssey", books[1].Name)
	assert.Len(t, books[0].Characters, 2)
	assert.Len(t, books[1].Characters, 1)

	achilles := books[0].Characters[0]
	assert.Equal(t, "iliad|achilles", achilles.Name)
	assert.Equal(t, "hero", achilles.Label)
	assert.Equal(t, 30, achilles.NumWords())
	assert.Same(t, books[0], achilles.Book)

	assert.Equal(t, 55, books[0].TotalWords)

	// the random scatter must leave the summary counts consistent with the assignments
	for _, bk := range books {
		var themed int64
		for _, ct := range bk.ThemeCounts {
			themed += ct
		}
		var roled int64
		for _, ch := range bk.Characters {
			for _, ct := range ch.RoleCounts {
				roled += ct
			}
		}
		assert.Equal(t, int64(bk.TotalWords), themed+roled, bk.Name)
	}
}

func TestLoadCharactersIgnoresOutOfVocabularyWords(t *testing.T) {
	intmpdir(t)

	lines := []string{
		"a|one x" + strings.Repeat(" common", 12) + " rare1 rare2",
		"a|two x" + strings.Repeat(" common", 12),
	}

	src := writetestcorpus(t, lines)
	v, err := BuildVocabulary(src, 1, 100)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	books, err := LoadCharacters(src, v, 2, 2, 100, rng)
	require.NoError(t, err)

	require.Len(t, books, 1)
	require.Len(t, books[0].Characters, 2)
	// rare1/rare2 fell outside the vocabulary and do not count
	assert.Equal(t, 12, books[0].Characters[0].NumWords())
}
