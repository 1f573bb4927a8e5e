package main

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const wordLength = 5

//go:embed words/answers.txt
var embeddedAnswers string

//go:embed words/allowed.txt
var embeddedAllowed string

// fallbackAnswers keeps the server playable even if every word source
// fails to load.
var fallbackAnswers = []string{
	"ABOUT", "ABOVE", "ABUSE", "ACTOR", "ACUTE",
	"ADMIT", "ADOPT", "ADULT", "AFTER", "AGAIN",
}

// Dictionary holds the two word sets the game consults: solutions are
// candidate challenge words, guesses are additionally accepted guesses.
// Read-only once constructed.
type Dictionary struct {
	solutions map[string]struct{}
	guesses   map[string]struct{}
}

func newDictionary(cfg *Config) *Dictionary {
	d := &Dictionary{
		solutions: toSet(loadWordList(cfg.answersFile, embeddedAnswers)),
		guesses:   toSet(loadWordList(cfg.allowedFile, embeddedAllowed)),
	}

	if len(d.solutions) == 0 {
		log.Warn().Msg("no challenge words loaded, falling back to built-in list")
		d.solutions = toSet(fallbackAnswers)
	}

	log.Info().
		Int("solutions", len(d.solutions)).
		Int("guesses", len(d.guesses)).
		Msg("word lists loaded")

	return d
}

// loadWordList reads words from path when set, falling back to the
// embedded list when the path is empty or unreadable.
func loadWordList(path, embedded string) []string {
	raw := embedded

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("unable to read word list, using embedded default")
		} else {
			raw = string(data)
		}
	}

	return parseWords(raw)
}

// parseWords normalizes one word per line, skipping anything that isn't
// exactly wordLength ASCII letters.
func parseWords(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		word := normalizeWord(line)
		if len(word) != wordLength || !isAlpha(word) {
			continue
		}
		words = append(words, word)
	}
	return words
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func normalizeWord(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

func isAlpha(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 'A' || word[i] > 'Z' {
			return false
		}
	}
	return true
}

// IsValid reports whether word (case-insensitive) is accepted as either
// a challenge word or a guess.
func (d *Dictionary) IsValid(word string) bool {
	w := normalizeWord(word)
	if _, ok := d.solutions[w]; ok {
		return true
	}
	_, ok := d.guesses[w]
	return ok
}

// IsSolution reports whether word is a candidate challenge word.
func (d *Dictionary) IsSolution(word string) bool {
	_, ok := d.solutions[normalizeWord(word)]
	return ok
}

func (d *Dictionary) WordLength() int {
	return wordLength
}
