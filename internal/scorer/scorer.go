package scorer

import (
	"math"
	"strings"

	"waybackspam/internal/extract"
	"waybackspam/internal/models"
)

// DefaultThreshold is the keyword-density percentage above which a page is
// treated as spam even when hit counting alone would not flag it.
const DefaultThreshold = 5.0

// Score counts occurrences of stop words in text and derives a spam score.
// Matching is case-insensitive substring matching: a stop word occurring
// inside a larger word still counts. Stop words are lowercased, trimmed and
// deduplicated; matches keep their discovery order over the input list.
func Score(text string, stopWords []string) models.ScoreResult {
	result := models.ScoreResult{Found: []models.StopWordMatch{}}
	if text == "" || len(stopWords) == 0 {
		return result
	}

	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, len(stopWords))
	occurrences := 0
	for _, w := range stopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if n := strings.Count(lower, w); n > 0 {
			result.Found = append(result.Found, models.StopWordMatch{Word: w, Count: n})
			occurrences += n
		}
	}

	result.Count = len(result.Found)
	if totalWords := len(strings.Fields(text)); totalWords > 0 {
		result.Score = round2(math.Min(100, float64(occurrences)/float64(totalWords)*100))
	}
	return result
}

// Scorer assesses whole HTML documents by combining extracted body text with
// head metadata before scoring.
type Scorer struct {
	ex *extract.Extractor

	// Threshold is the spam score above which a page is flagged even
	// without considering individual hits.
	Threshold float64
}

func New(ex *extract.Extractor) *Scorer {
	return &Scorer{ex: ex, Threshold: DefaultThreshold}
}

// AnalyzeHTML extracts text and meta fields, scores their concatenation and
// derives the spam verdict: any stop-word hit, or a score over the threshold.
func (s *Scorer) AnalyzeHTML(html string, stopWords []string) models.HTMLAnalysis {
	text := s.ex.ExtractText(html)
	meta := s.ex.ExtractMeta(html)

	parts := make([]string, 0, 4)
	for _, p := range []string{text, meta.Title, meta.Description, meta.Keywords} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	res := Score(strings.Join(parts, " "), stopWords)

	return models.HTMLAnalysis{
		TextLength: len(text),
		Meta:       meta,
		StopWords:  res,
		IsSpam:     res.Count > 0 || res.Score > s.Threshold,
		SpamScore:  res.Score,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
