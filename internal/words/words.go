// Package words provides the static word lists games draw from.
package words

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed words.yaml
var defaultPack []byte

var (
	ErrEmptyList     = errors.New("word list is empty")
	ErrInvalidFormat = errors.New("invalid word pack")
)

// Pack is a set of word lists, one per game that needs words.
type Pack struct {
	Hangman    []string `yaml:"hangman"`
	Wordle     []string `yaml:"wordle"`
	Typerace   []string `yaml:"typerace"`
	Verbal     []string `yaml:"verbal"`
	Dictionary []string `yaml:"dictionary"`

	dictionary Set
	wordle     Set
}

// Set is a lookup table of lower-case words.
type Set map[string]struct{}

func NewSet(words []string) Set {
	set := make(Set, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}

	return set
}

func (that Set) Contains(word string) bool {
	_, ok := that[strings.ToLower(word)]
	return ok
}

// Default returns the pack compiled into the binary.
func Default() (*Pack, error) {
	return Parse(defaultPack)
}

// Load reads a pack from a yaml file. An empty path means the default pack.
func Load(path string) (*Pack, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word pack: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Pack, error) {
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	pack.Hangman = normalize(pack.Hangman)
	pack.Wordle = normalize(pack.Wordle)
	pack.Typerace = normalize(pack.Typerace)
	pack.Verbal = normalize(pack.Verbal)
	pack.Dictionary = normalize(pack.Dictionary)

	pack.dictionary = NewSet(pack.Dictionary)
	pack.wordle = NewSet(pack.Wordle)

	return &pack, nil
}

// DictionarySet is nil when the pack carries no dictionary.
func (that *Pack) DictionarySet() Set {
	if len(that.dictionary) == 0 {
		return nil
	}

	return that.dictionary
}

// WordleSet is the list of accepted guesses for Wordle.
func (that *Pack) WordleSet() Set {
	if len(that.wordle) == 0 {
		return nil
	}

	return that.wordle
}

// Pick returns a random entry of list.
func Pick(rng *rand.Rand, list []string) (string, error) {
	if len(list) == 0 {
		return "", ErrEmptyList
	}

	return list[rng.IntN(len(list))], nil
}

// PickN returns n random entries, repeats allowed.
func PickN(rng *rand.Rand, list []string, n int) ([]string, error) {
	if len(list) == 0 {
		return nil, ErrEmptyList
	}

	out := make([]string, n)
	for i := range out {
		out[i] = list[rng.IntN(len(list))]
	}

	return out, nil
}

func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, word := range list {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			out = append(out, word)
		}
	}

	return out
}
