// Package generator builds target word sequences.
package generator

import (
	"math/rand"
	"time"
	"unicode"
)

// Generator produces randomized word sequences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Sample selects count words uniformly, with replacement.
func (g *Generator) Sample(words []string, count int) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, words[g.rnd.Intn(len(words))])
	}
	return result
}

// WeightedSampler biases selection toward previously missed words.
type WeightedSampler struct {
	g      *Generator
	missed map[string]struct{}
	factor float64
}

// Weighted returns a sampler that gives each missed word a weight of
// 1+factor against 1 for every other word.
func (g *Generator) Weighted(missed map[string]struct{}, factor float64) *WeightedSampler {
	return &WeightedSampler{g: g, missed: missed, factor: factor}
}

// Sample selects count words, with replacement, by weight.
func (w *WeightedSampler) Sample(words []string, count int) []string {
	if len(w.missed) == 0 || w.factor <= 0 {
		return w.g.Sample(words, count)
	}
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weight := 1.0
		if _, ok := w.missed[word]; ok {
			weight += w.factor
		}
		weights[i] = weight
		total += weight
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := w.g.rnd.Float64() * total
		acc := 0.0
		idx := len(words) - 1
		for j, weight := range weights {
			acc += weight
			if r < acc {
				idx = j
				break
			}
		}
		result = append(result, words[idx])
	}
	return result
}

// Decorate applies caps/punctuation rules to each word in place and returns
// the slice.
func (g *Generator) Decorate(words []string, capsPct, punctPct float64, punctSet []rune) []string {
	for i, word := range words {
		word = applyCaps(g.rnd, word, capsPct)
		words[i] = applyPunct(g.rnd, word, punctPct, punctSet)
	}
	return words
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
