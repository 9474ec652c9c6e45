package analyzer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"waybackspam/internal/models"
	"waybackspam/internal/scorer"
)

// SnapshotSource lists archived captures of a target and fetches their HTML.
// The wayback.Client satisfies it; tests substitute fakes.
type SnapshotSource interface {
	ListSnapshots(ctx context.Context, target string, limit int) ([]models.SnapshotRecord, error)
	FetchSnapshot(ctx context.Context, rec models.SnapshotRecord) (models.SnapshotHTML, error)
}

// ProgressFunc receives human-readable progress messages. It is a pure side
// channel: a nil func disables it and it never affects results.
type ProgressFunc func(msg string)

// Pacing between upstream requests. The archive rate-limits aggressive
// clients, so fetches are strictly sequential with fixed waits.
const (
	DefaultSnapshotDelay = 1500 * time.Millisecond
	DefaultDomainDelay   = 3000 * time.Millisecond
)

// Analyzer runs spam analysis over the archived history of domains.
type Analyzer struct {
	source SnapshotSource
	scorer *scorer.Scorer

	// SnapshotDelay is the wait between snapshot fetches within one domain,
	// DomainDelay the wait between domains in a batch. Neither applies after
	// the last item.
	SnapshotDelay time.Duration
	DomainDelay   time.Duration

	Progress ProgressFunc
}

func New(source SnapshotSource, sc *scorer.Scorer) *Analyzer {
	return &Analyzer{
		source:        source,
		scorer:        sc,
		SnapshotDelay: DefaultSnapshotDelay,
		DomainDelay:   DefaultDomainDelay,
	}
}

func (a *Analyzer) progressf(format string, args ...any) {
	if a.Progress != nil {
		a.Progress(fmt.Sprintf(format, args...))
	}
}

// AnalyzeDomain fetches up to maxSnapshots archived captures of domain and
// aggregates their spam assessments. A failed snapshot fetch is reported via
// the progress sink and skipped; a failed snapshot listing fails the whole
// call.
func (a *Analyzer) AnalyzeDomain(ctx context.Context, domain string, stopWords []string, maxSnapshots int) (models.DomainAnalysis, error) {
	snaps, err := a.source.ListSnapshots(ctx, domain, maxSnapshots)
	if err != nil {
		return models.DomainAnalysis{}, fmt.Errorf("list snapshots for %s: %w", domain, err)
	}

	res := models.DomainAnalysis{
		Domain:         domain,
		StopWordsFound: []models.StopWordMatch{},
	}
	if len(snaps) == 0 {
		res.Status = models.StatusNoSnapshots
		return res, nil
	}
	res.SnapshotsChecked = len(snaps)

	var totalScore float64
	counts := map[string]int{}
	var order []string // first-seen order, tie-break for equal counts

	for i, rec := range snaps {
		if i > 0 {
			time.Sleep(a.SnapshotDelay)
		}
		a.progressf("fetching snapshot %d/%d (%s)", i+1, len(snaps), rec.Timestamp)

		snap, err := a.source.FetchSnapshot(ctx, rec)
		if err != nil {
			a.progressf("snapshot %s skipped: %v", rec.Timestamp, err)
			continue
		}

		analysis := a.scorer.AnalyzeHTML(snap.HTML, stopWords)
		if !analysis.IsSpam {
			continue
		}
		res.SpamSnapshots++
		totalScore += analysis.SpamScore
		if res.FirstSpamDate == "" {
			res.FirstSpamDate = rec.Timestamp
		}
		for _, m := range analysis.StopWords.Found {
			if _, ok := counts[m.Word]; !ok {
				order = append(order, m.Word)
			}
			counts[m.Word] += m.Count
		}
	}

	res.SpamDetected = res.SpamSnapshots > 0
	res.SpamPercentage = round2(float64(res.SpamSnapshots) / float64(res.SnapshotsChecked) * 100)
	if res.SpamSnapshots > 0 {
		res.AvgSpamScore = round2(totalScore / float64(res.SpamSnapshots))
	}
	for _, w := range order {
		res.StopWordsFound = append(res.StopWordsFound, models.StopWordMatch{Word: w, Count: counts[w]})
		res.TotalStopWordsFound += counts[w]
	}
	sort.SliceStable(res.StopWordsFound, func(i, j int) bool {
		return res.StopWordsFound[i].Count > res.StopWordsFound[j].Count
	})

	switch {
	case res.SpamPercentage >= 50:
		res.Status = models.StatusSpam
	case res.SpamPercentage > 0:
		res.Status = models.StatusSuspicious
	default:
		res.Status = models.StatusClean
	}
	return res, nil
}

// AnalyzeDomains runs AnalyzeDomain over each domain strictly sequentially in
// input order. Blank domains are skipped; a failing domain becomes an error
// record and its siblings still run, so the batch never aborts.
func (a *Analyzer) AnalyzeDomains(ctx context.Context, domains []string, stopWords []string, maxSnapshots int) []models.DomainReport {
	targets := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = strings.TrimSpace(d); d != "" {
			targets = append(targets, d)
		}
	}

	reports := make([]models.DomainReport, 0, len(targets))
	for i, d := range targets {
		if i > 0 {
			time.Sleep(a.DomainDelay)
		}
		a.progressf("[%d/%d] %s: analyzing up to %d snapshots", i+1, len(targets), d, maxSnapshots)

		analysis, err := a.AnalyzeDomain(ctx, d, stopWords, maxSnapshots)
		if err != nil {
			a.progressf("[%d/%d] %s: %v", i+1, len(targets), d, err)
			reports = append(reports, models.DomainReport{
				Domain: d,
				Error:  err.Error(),
				Status: models.StatusError,
			})
			continue
		}
		a.progressf("[%d/%d] %s: %s (%d/%d snapshots flagged)",
			i+1, len(targets), d, analysis.Status, analysis.SpamSnapshots, analysis.SnapshotsChecked)
		reports = append(reports, models.DomainReport{
			Domain: d,
			Result: &analysis,
			Status: analysis.Status,
		})
	}
	return reports
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
