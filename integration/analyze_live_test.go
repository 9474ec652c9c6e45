//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"waybackspam/internal/analyzer"
	"waybackspam/internal/extract"
	"waybackspam/internal/scorer"
	"waybackspam/internal/wayback"
)

func TestArchiveOrgAnalysis(t *testing.T) {
	// Live hit against web.archive.org (subject to rate limiting / outages)
	client := wayback.NewClient("", 25*time.Second, 5*time.Second, 5*1024*1024)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	recs, err := client.ListSnapshots(ctx, "example.com", 2)
	if err != nil {
		t.Skipf("skipping: cdx query failed: %v", err)
		return
	}
	if len(recs) == 0 {
		t.Skip("skipping: no captures listed for example.com")
		return
	}

	an := analyzer.New(client, scorer.New(extract.New()))
	an.Progress = func(msg string) { t.Log(msg) }

	res, err := an.AnalyzeDomain(ctx, "example.com", []string{"casino", "viagra"}, 2)
	if err != nil {
		t.Skipf("skipping: analysis failed: %v", err)
		return
	}
	if res.SnapshotsChecked == 0 {
		t.Errorf("expected at least one snapshot checked")
	}
	if res.Status == "" {
		t.Errorf("expected a status, got empty")
	}
}
