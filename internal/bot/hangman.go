package bot

import (
	"strings"
	"unicode"
)

const maxLives = 7

// gallows[i] is drawn when i lives remain.
var gallows = [maxLives + 1]string{
	" +----+\n |    |\n |    O\n |   /|\\\n |    |\n |   / \\\n=====",
	" +----+\n |    |\n |    O\n |   /|\\\n |    |\n |   /\n=====",
	" +----+\n |    |\n |    O\n |   /|\\\n |    |\n |\n=====",
	" +----+\n |    |\n |    O\n |   /|\\\n |\n |\n=====",
	" +----+\n |    |\n |    O\n |   /|\n |\n |\n=====",
	" +----+\n |    |\n |    O\n |    |\n |\n |\n=====",
	" +----+\n |    |\n |    O\n |\n |\n |\n=====",
	" +----+\n |    |\n |\n |\n |\n |\n=====",
}

type outcome int

const (
	outcomeHit outcome = iota
	outcomeMiss
	outcomeRepeat
	outcomeWon
	outcomeLost
)

type game struct {
	word       string
	revealed   []bool
	missed     []rune
	lives      int
	generation int
}

func newGame(word string, generation int) *game {
	return &game{
		word:       word,
		revealed:   make([]bool, len(word)),
		lives:      maxLives,
		generation: generation,
	}
}

func (g *game) guessed(letter rune) bool {
	for i, r := range g.word {
		if r == letter && g.revealed[i] {
			return true
		}
	}
	for _, r := range g.missed {
		if r == letter {
			return true
		}
	}
	return false
}

func (g *game) guess(letter rune) outcome {
	letter = unicode.ToLower(letter)
	if g.guessed(letter) {
		return outcomeRepeat
	}

	hit := false
	for i, r := range g.word {
		if r == letter {
			g.revealed[i] = true
			hit = true
		}
	}
	if !hit {
		g.missed = append(g.missed, letter)
		g.lives--
		if g.lives == 0 {
			return outcomeLost
		}
		return outcomeMiss
	}
	for _, ok := range g.revealed {
		if !ok {
			return outcomeHit
		}
	}
	return outcomeWon
}

func (g *game) board() string {
	var b strings.Builder
	b.WriteString(gallows[g.lives])
	b.WriteString("\nMissed Guesses: ")
	for _, r := range g.missed {
		b.WriteRune(r)
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	for i, r := range g.word {
		if g.revealed[i] {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	return b.String()
}
