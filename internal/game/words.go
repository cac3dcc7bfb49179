package game

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
)

//go:embed words.txt
var defaultWords string

// WordBank is an immutable pool of candidate words. Each Generate call draws
// without replacement, so one batch never repeats a word.
type WordBank struct {
	words []string
}

func NewWordBank(words []string) (*WordBank, error) {
	seen := make(map[string]struct{}, len(words))
	pool := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Join(strings.Fields(w), " ")
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pool = append(pool, w)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("word bank is empty")
	}
	return &WordBank{words: pool}, nil
}

// DefaultWordBank is the embedded beginner list.
func DefaultWordBank() *WordBank {
	bank, err := ReadWordBank(strings.NewReader(defaultWords))
	if err != nil {
		panic(err)
	}
	return bank
}

// LoadWordBank reads one word per line from path.
func LoadWordBank(path string) (*WordBank, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open words file %s: %w", path, err)
	}
	defer file.Close()

	bank, err := ReadWordBank(file)
	if err != nil {
		return nil, fmt.Errorf("words file %s: %w", path, err)
	}
	return bank, nil
}

func ReadWordBank(r io.Reader) (*WordBank, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewWordBank(words)
}

func (wb *WordBank) Len() int {
	return len(wb.words)
}

// Generate returns min(count, Len()) distinct words in random order.
func (wb *WordBank) Generate(count int) []string {
	if count <= 0 {
		return nil
	}
	count = min(count, len(wb.words))
	picked := make([]string, 0, count)
	for _, i := range rand.Perm(len(wb.words))[:count] {
		picked = append(picked, wb.words[i])
	}
	return picked
}
