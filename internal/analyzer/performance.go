package analyzer

import (
	"net/http"

	"github.com/seoscan/seoscan/internal/model"
)

// Performance scoring weights. The four components sum to 100 for an
// instantly answering, directly served, substantial page.
//
// Design decision: We keep the per-component points on the score so a
// report can say WHY a page scored 55 instead of presenting a bare
// number nobody can act on.
const (
	pointsResponseMax = 40
	pointsStatusMax   = 20
	pointsRedirectMax = 20
	pointsContentMax  = 20
)

// ScorePerformance rates one page from 0 to 100.
func ScorePerformance(page *model.PageRecord) model.PerformanceScore {
	points := map[string]int{
		"response_time": responsePoints(page),
		"status":        statusPoints(page),
		"redirects":     redirectPoints(page),
		"content":       contentPoints(page),
	}

	total := 0
	for _, p := range points {
		total += p
	}

	return model.PerformanceScore{
		URL:    page.URL,
		Score:  total,
		Points: points,
	}
}

// ScoreAll rates every page of a crawl.
func ScoreAll(pages []model.PageRecord) []model.PerformanceScore {
	scores := make([]model.PerformanceScore, 0, len(pages))
	for i := range pages {
		scores = append(scores, ScorePerformance(&pages[i]))
	}
	return scores
}

func responsePoints(page *model.PageRecord) int {
	if page.Failed() {
		return 0
	}
	switch t := page.ResponseTime; {
	case t <= 0.2:
		return pointsResponseMax
	case t <= 0.5:
		return 30
	case t <= 1.0:
		return 20
	case t <= 3.0:
		return 10
	default:
		return 0
	}
}

func statusPoints(page *model.PageRecord) int {
	switch {
	case page.StatusCode == http.StatusOK:
		return pointsStatusMax
	case page.StatusCode >= 300 && page.StatusCode < 400:
		return 10
	default:
		return 0
	}
}

func redirectPoints(page *model.PageRecord) int {
	switch len(page.Redirects) {
	case 0:
		return pointsRedirectMax
	case 1:
		return 12
	case 2:
		return 5
	default:
		return 0
	}
}

func contentPoints(page *model.PageRecord) int {
	switch w := page.WordCount; {
	case w >= 300:
		return pointsContentMax
	case w >= 100:
		return 15
	case w >= 50:
		return 8
	default:
		return 0
	}
}
