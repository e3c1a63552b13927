package analyzer

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keywordDensityMax is the share of total words above which a single
// keyword looks like stuffing.
const keywordDensityMax = 0.03

// minKeywordLen filters noise words the stopword lists miss.
const minKeywordLen = 3

// stopwords are ignored for keyword analysis. English and German lists are
// merged because the audited sites are mostly German with English chrome.
var stopwords = map[string]bool{
	// English
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "his": true,
	"has": true, "have": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "your": true, "what": true,
	"their": true, "there": true, "which": true, "when": true, "more": true,
	"been": true, "were": true, "into": true, "than": true, "them": true,
	"about": true, "would": true, "these": true, "other": true, "some": true,

	// German
	"der": true, "die": true, "das": true, "und": true, "ist": true,
	"den": true, "von": true, "mit": true, "auf": true, "ein": true,
	"eine": true, "einen": true, "einem": true, "einer": true, "eines": true,
	"sich": true, "auch": true, "nicht": true, "werden": true, "wird": true,
	"sind": true, "oder": true, "aber": true, "wie": true, "bei": true,
	"aus": true, "nach": true, "über": true, "für": true, "als": true,
	"des": true, "dem": true, "zur": true, "zum": true, "durch": true,
	"wir": true, "sie": true, "ihre": true, "unsere": true, "mehr": true,
	"alle": true, "kann": true, "haben": true, "hier": true, "noch": true,
}

// lowerCaser folds words case-insensitively, handling German sharp s and
// umlauts correctly where strings.ToLower suffices only for ASCII.
var lowerCaser = cases.Lower(language.German)

// Keyword is one word with its share of the page text.
type Keyword struct {
	Word    string  `json:"word"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// TopKeywords returns the n most frequent non-stopword words of a text,
// most frequent first. Density is relative to all counted words.
func TopKeywords(text string, n int) []Keyword {
	if n <= 0 {
		return nil
	}

	counts := make(map[string]int)
	total := 0
	for _, raw := range strings.Fields(text) {
		word := lowerCaser.String(strings.Trim(raw, ".,;:!?\"'()[]{}«»„“”–-"))
		if len([]rune(word)) < minKeywordLen || stopwords[word] {
			continue
		}
		if !isWord(word) {
			continue
		}
		counts[word]++
		total++
	}
	if total == 0 {
		return nil
	}

	keywords := make([]Keyword, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, Keyword{
			Word:    word,
			Count:   count,
			Density: float64(count) / float64(total),
		})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})

	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// isWord filters tokens that are mostly digits or punctuation.
func isWord(s string) bool {
	letters := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127 {
			letters++
		}
	}
	return letters*2 > len([]rune(s))
}
