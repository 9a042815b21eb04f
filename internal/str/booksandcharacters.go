//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// The corpus is organized hierarchically: a Book owns Characters; a Character owns a
// sequence of word ids paired with a sequence of topic assignments. "Topic" is the
// generic name covering both book-level themes and character-level roles: ids below
// NumThemes are themes; the rest are roles. The Book holds the per-theme word counts
// for all of its characters; each Character holds its own per-role word counts.

type Character struct {
	Name         string
	Label        string
	WordTypes    []int32
	TopicAssigns []int32
	RoleCounts   []int64
	Book         *Book
	NumThemes    int
}

type Book struct {
	Name        string
	NumThemes   int
	ThemeCounts []int64
	Characters  []*Character
	TotalWords  int
}

// NumWords - how many words does this character speak?
func (c *Character) NumWords() int {
	return len(c.WordTypes)
}

// AssignWord - move the word at wordidx from its current topic to newtopic, keeping
// the summary statistics in the Character (roles) or the Book (themes) in step
func (c *Character) AssignWord(wordidx int, newtopic int32) {
	existing := c.TopicAssigns[wordidx]
	c.TopicAssigns[wordidx] = newtopic

	if int(existing) < c.NumThemes {
		c.Book.IncrementDecrement(existing, -1)
	} else {
		c.RoleCounts[int(existing)-c.NumThemes] -= 1
	}

	if int(newtopic) < c.NumThemes {
		c.Book.IncrementDecrement(newtopic, 1)
	} else {
		c.RoleCounts[int(newtopic)-c.NumThemes] += 1
	}
}

// DominantRole - the role holding the most of this character's words; -1 if every role is empty
func (c *Character) DominantRole() int {
	winner := -1
	var max int64
	for r, ct := range c.RoleCounts {
		if ct > max {
			winner = r
			max = ct
		}
	}
	return winner
}

func (b *Book) AcceptCharacter(c *Character) {
	b.Characters = append(b.Characters, c)
	b.TotalWords += c.NumWords()
}

func (b *Book) IncrementDecrement(theme int32, change int64) {
	b.ThemeCounts[theme] += change
}
