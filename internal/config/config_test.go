package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ArchiveBaseURL != "https://web.archive.org" {
		t.Fatalf("unexpected base url %q", cfg.ArchiveBaseURL)
	}
	if cfg.SnapshotDelay != 1500*time.Millisecond || cfg.DomainDelay != 3*time.Second {
		t.Fatalf("unexpected pacing: %v / %v", cfg.SnapshotDelay, cfg.DomainDelay)
	}
	if cfg.SpamThreshold != 5.0 {
		t.Fatalf("unexpected threshold %v", cfg.SpamThreshold)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ARCHIVE_BASE_URL", "http://localhost:9999")
	t.Setenv("SNAPSHOT_DELAY", "10ms")
	t.Setenv("MAX_BODY_SIZE", "1024")
	t.Setenv("SPAM_THRESHOLD", "2.5")

	cfg := Load()
	if cfg.ArchiveBaseURL != "http://localhost:9999" {
		t.Fatalf("unexpected base url %q", cfg.ArchiveBaseURL)
	}
	if cfg.SnapshotDelay != 10*time.Millisecond {
		t.Fatalf("unexpected snapshot delay %v", cfg.SnapshotDelay)
	}
	if cfg.MaxBodySize != 1024 {
		t.Fatalf("unexpected body size %d", cfg.MaxBodySize)
	}
	if cfg.SpamThreshold != 2.5 {
		t.Fatalf("unexpected threshold %v", cfg.SpamThreshold)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SNAPSHOT_DELAY", "soon")
	t.Setenv("MAX_BODY_SIZE", "lots")

	cfg := Load()
	if cfg.SnapshotDelay != 1500*time.Millisecond {
		t.Fatalf("malformed duration should fall back, got %v", cfg.SnapshotDelay)
	}
	if cfg.MaxBodySize != 5*1024*1024 {
		t.Fatalf("malformed size should fall back, got %d", cfg.MaxBodySize)
	}
}
