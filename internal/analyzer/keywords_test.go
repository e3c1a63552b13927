package analyzer

import "testing"

func TestTopKeywords(t *testing.T) {
	t.Parallel()

	text := "Webdesign Webdesign Webdesign Agentur Agentur Hamburg und die der für"
	keywords := TopKeywords(text, 2)

	if len(keywords) != 2 {
		t.Fatalf("got %d keywords, want 2: %v", len(keywords), keywords)
	}
	if keywords[0].Word != "webdesign" || keywords[0].Count != 3 {
		t.Errorf("top keyword = %+v, want webdesign x3", keywords[0])
	}
	if keywords[1].Word != "agentur" || keywords[1].Count != 2 {
		t.Errorf("second keyword = %+v, want agentur x2", keywords[1])
	}

	// stopwords and short words never counted: 6 content words total
	if keywords[0].Density != 0.5 {
		t.Errorf("density = %.3f, want 0.5", keywords[0].Density)
	}
}

func TestTopKeywordsStripsPunctuation(t *testing.T) {
	t.Parallel()

	keywords := TopKeywords(`"Angebot", Angebot! (Angebot.)`, 1)
	if len(keywords) != 1 || keywords[0].Count != 3 {
		t.Errorf("punctuated variants not merged: %v", keywords)
	}
}

func TestTopKeywordsFiltersNumbers(t *testing.T) {
	t.Parallel()

	keywords := TopKeywords("2024 2024 2024 Bericht", 5)
	for _, kw := range keywords {
		if kw.Word == "2024" {
			t.Errorf("numeric token counted as keyword: %v", keywords)
		}
	}
}

func TestTopKeywordsEmptyAndStopwordOnlyText(t *testing.T) {
	t.Parallel()

	if got := TopKeywords("", 3); got != nil {
		t.Errorf("empty text yielded %v", got)
	}
	if got := TopKeywords("der die das und the and for", 3); got != nil {
		t.Errorf("stopword-only text yielded %v", got)
	}
}
