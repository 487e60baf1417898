package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", "ice cream"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterOtherLangsDropsSpaces(t *testing.T) {
	filter := FilterForLang("de")
	if !filter("Straße") {
		t.Fatalf("expected Straße to pass")
	}
	if filter("guten tag") || filter("") {
		t.Fatalf("expected words with spaces and empty words to be rejected")
	}
}
