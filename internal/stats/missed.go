package stats

import "github.com/verte-zerg/wordsprint/internal/model"

// SelectMissedWords picks up to top words with the highest miss rate. Words
// never missed are ignored. A non-positive top keeps every missed word.
func SelectMissedWords(aggs []model.WordAggregate, top int) map[string]struct{} {
	missed := map[string]struct{}{}
	rows := WordRows(aggs)
	if top <= 0 || top > len(rows) {
		top = len(rows)
	}
	for _, r := range rows[:top] {
		missed[r.Word] = struct{}{}
	}
	return missed
}
