//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

// corpus file format, one character per line:
//   charid label w1 w2 w3 ...
// the book name is everything in charid before the first "|"

const (
	MINFIELDS = 3
	// a single character can run to tens of thousands of words; default Scanner buffers will not do
	SCANNERBUF = 16 * 1024 * 1024
)

type Vocabulary struct {
	Words   []string // in order of frequency
	Lexicon map[string]int32
}

func (v *Vocabulary) Size() int {
	return len(v.Words)
}

// BuildVocabulary - a census pass through the corpus; a word is counted once per character;
// the top maxwords words become the vocabulary and are also written to vv.VOCABOUTFILE
func BuildVocabulary(path string, maxwords int, maxlines int) (*Vocabulary, error) {
	const (
		MSG1 = "BuildVocabulary() kept %s of %s words"
		MSG2 = "wrote '%s'"
		WARN = "BuildVocabulary() skipping malformed line %d"
	)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("BuildVocabulary() could not open '%s': %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	counts := make(map[string]int)
	var firstseen []string

	sofar := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), SCANNERBUF)
	for scanner.Scan() {
		sofar += 1
		if sofar > maxlines {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < MINFIELDS {
			lnch.Msg.Emit(fmt.Sprintf(WARN, sofar), mm.MSGWARN)
			continue
		}

		words := fields[2:]
		seen := make(map[string]bool, len(words))
		for _, w := range words {
			if seen[w] {
				continue
			}
			seen[w] = true
			if _, ok := counts[w]; !ok {
				firstseen = append(firstseen, w)
			}
			// notice adding only once per character
			counts[w] += 1
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("BuildVocabulary() failed while reading '%s': %w", path, err)
	}

	// ties resolve in first-seen order: firstseen is already in that order and the sort is stable
	ranked := make([]string, len(firstseen))
	copy(ranked, firstseen)
	slices.SortStableFunc(ranked, func(a, b string) int {
		return counts[b] - counts[a]
	})

	if maxwords < len(ranked) {
		ranked = ranked[0:maxwords]
	}

	v := &Vocabulary{
		Words:   ranked,
		Lexicon: make(map[string]int32, len(ranked)),
	}
	for idx, w := range ranked {
		v.Lexicon[w] = int32(idx)
	}

	var sb strings.Builder
	for _, w := range ranked {
		sb.WriteString(fmt.Sprintf("%s\t%d\n", w, counts[w]))
	}
	err = os.WriteFile(vv.VOCABOUTFILE, []byte(sb.String()), vv.WRITEPERMS)
	if err != nil {
		return nil, fmt.Errorf("BuildVocabulary() could not write '%s': %w", vv.VOCABOUTFILE, err)
	}
	lnch.Msg.Emit(fmt.Sprintf(MSG2, vv.VOCABOUTFILE), mm.MSGPEEK)

	p := message.NewPrinter(language.English)
	lnch.Msg.Emit(p.Sprintf(MSG1, p.Sprint(len(ranked)), p.Sprint(len(firstseen))), mm.MSGNOTE)

	return v, nil
}
