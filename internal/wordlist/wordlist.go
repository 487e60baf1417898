// Package wordlist loads word lists from files or the embedded defaults.
package wordlist

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed words/*.txt
var embedded embed.FS

// EmbeddedPrefix starts the label of a word list compiled into the binary.
const EmbeddedPrefix = "embedded:"

var (
	// ErrEmpty is returned for a word list without any words.
	ErrEmpty = errors.New("word list is empty")
	// ErrUnknownLanguage is returned when no list exists for a language.
	ErrUnknownLanguage = errors.New("unknown word list language")
)

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return readWords(file)
}

// Default returns the embedded word list for lang.
func Default(lang string) ([]string, error) {
	f, err := embedded.Open("words/" + strings.ToLower(lang) + ".txt")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	defer func() {
		_ = f.Close()
	}()
	return readWords(f)
}

// Resolve finds the word source for a practice run. An explicit path wins,
// then <dir>/<lang>.txt, then the embedded list. The returned label names
// where the words came from.
func Resolve(lang, path, dir string) ([]string, string, error) {
	if path != "" {
		words, err := LoadWords(path)
		if err != nil {
			return nil, path, err
		}
		return applyFilter(lang, words, path)
	}
	if dir != "" {
		candidate := filepath.Join(dir, lang+".txt")
		if _, err := os.Stat(candidate); err == nil {
			words, err := LoadWords(candidate)
			if err != nil {
				return nil, candidate, err
			}
			return applyFilter(lang, words, candidate)
		}
	}
	words, err := Default(lang)
	label := EmbeddedPrefix + strings.ToLower(lang)
	if err != nil {
		return nil, label, err
	}
	return words, label, nil
}

// Languages lists languages with a word list in dir or embedded in the binary.
func Languages(dir string) ([]string, error) {
	seen := map[string]struct{}{}
	entries, err := embedded.ReadDir("words")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		seen[strings.TrimSuffix(entry.Name(), ".txt")] = struct{}{}
	}
	if dir != "" {
		diskEntries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
		}
		for _, entry := range diskEntries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
				continue
			}
			seen[strings.TrimSuffix(name, ".txt")] = struct{}{}
		}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

func applyFilter(lang string, words []string, label string) ([]string, string, error) {
	filter := FilterForLang(lang)
	kept := words[:0:0]
	for _, w := range words {
		if filter(w) {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return nil, label, ErrEmpty
	}
	return kept, label, nil
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
