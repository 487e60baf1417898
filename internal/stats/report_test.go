package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "wordsprint.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		rec := model.SessionRecord{
			UUID:         string(rune('a' + i)),
			StartedAt:    start,
			EndedAt:      end,
			Lang:         "en",
			Words:        2,
			CorrectWords: 1,
			TotalChars:   10,
			DurationMs:   end.Sub(start).Milliseconds(),
			WPM:          2 + float64(i),
			Accuracy:     50,
			Formula:      "words",
			WordListPath: "embedded:en",
		}
		words := []model.WordOutcome{
			{Index: 0, Target: "hello", Typed: "hello", Correct: true},
			{Index: 1, Target: "world", Typed: "word", Correct: false},
		}
		id, err := st.InsertSession(ctx, rec, words)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		Lang:        "en",
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 1 || report.WindowSessionIDs[0] != ids[2] {
		t.Fatalf("unexpected window session ids: %v", report.WindowSessionIDs)
	}
	if len(report.WordAggsAll) != 2 {
		t.Fatalf("expected word aggregates for all sessions, got %+v", report.WordAggsAll)
	}
	for _, agg := range report.WordAggsAll {
		if agg.Word == "world" && agg.Missed != 2 {
			t.Fatalf("expected world missed twice across last 2 sessions, got %d", agg.Missed)
		}
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, 1, 60); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Avg WPM: 3.50", "Learning Curves", "world"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
