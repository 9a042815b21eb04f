//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

// LoadCharacters - a second pass through the corpus: build the Book/Character hierarchy,
// keep only in-vocabulary words, and give every word a random initial topic assignment
func LoadCharacters(path string, v *Vocabulary, themes int, roles int, maxlines int, rng *rand.Rand) ([]*str.Book, error) {
	const (
		SKIP = "skipping '%s' because too long (%d words)"
		MSG1 = "%d characters loaded into %d books; %d dropped as too short"
	)

	numtopics := themes + roles

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadCharacters() could not open '%s': %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	allbooks := make(map[string]*str.Book)
	var bookorder []string

	sofar := 0
	loaded := 0
	dropped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), SCANNERBUF)
	for scanner.Scan() {
		sofar += 1
		if sofar > maxlines {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < MINFIELDS {
			continue
		}

		charname := fields[0]
		label := fields[1]
		words := fields[2:]

		wordtypes := make([]int32, 0, len(words))
		for _, w := range words {
			if id, ok := v.Lexicon[w]; ok {
				wordtypes = append(wordtypes, id)
			}
		}

		if len(wordtypes) > vv.MAXCHARWORDS {
			lnch.Msg.Emit(fmt.Sprintf(SKIP, charname, len(wordtypes)), mm.MSGNOTE)
			continue
		}

		if len(wordtypes) < vv.MINCHARWORDS {
			dropped += 1
			continue
		}

		bookname := strings.Split(charname, vv.BOOKIDSEPARATOR)[0]

		thisbook, ok := allbooks[bookname]
		if !ok {
			thisbook = &str.Book{
				Name:        bookname,
				NumThemes:   themes,
				ThemeCounts: make([]int64, themes),
			}
			allbooks[bookname] = thisbook
			bookorder = append(bookorder, bookname)
		}

		thischaracter := newcharacter(charname, label, wordtypes, thisbook, themes, roles, numtopics, rng)
		thisbook.AcceptCharacter(thischaracter)
		loaded += 1
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("LoadCharacters() failed while reading '%s': %w", path, err)
	}

	books := make([]*str.Book, len(bookorder))
	for i, n := range bookorder {
		books[i] = allbooks[n]
	}

	lnch.Msg.Emit(fmt.Sprintf(MSG1, loaded, len(books), dropped), mm.MSGNOTE)

	return books, nil
}

// newcharacter - attach a character to its book and scatter its words randomly across all topics
func newcharacter(name string, label string, wordtypes []int32, book *str.Book, themes int, roles int, numtopics int, rng *rand.Rand) *str.Character {
	c := &str.Character{
		Name:         name,
		Label:        label,
		WordTypes:    wordtypes,
		TopicAssigns: make([]int32, len(wordtypes)),
		RoleCounts:   make([]int64, roles),
		Book:         book,
		NumThemes:    themes,
	}

	for idx := range wordtypes {
		topic := int32(rng.Intn(numtopics))
		c.TopicAssigns[idx] = topic
		if int(topic) < themes {
			book.ThemeCounts[topic] += 1
		} else {
			c.RoleCounts[int(topic)-themes] += 1
		}
	}

	return c
}
