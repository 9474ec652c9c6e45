package main

import (
	"context"
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"waybackspam/internal/analyzer"
	"waybackspam/internal/config"
	"waybackspam/internal/extract"
	"waybackspam/internal/ioformats"
	"waybackspam/internal/scorer"
	"waybackspam/internal/wayback"
)

type options struct {
	Input        string `short:"i" long:"input" description:"Domains file (csv with 'domain' column or ndjson)" required:"true"`
	StopWords    string `short:"s" long:"stop-words" description:"Stop words file, one word or phrase per line" required:"true"`
	Output       string `short:"o" long:"output" description:"Output NDJSON file (default stdout)"`
	MaxSnapshots int    `short:"n" long:"max-snapshots" description:"Snapshots to check per domain" default:"10"`
	Quiet        bool   `short:"q" long:"quiet" description:"Suppress progress output"`
}

func main() {
	var opts options
	parser := goflags.NewParser(&opts, goflags.Default)
	parser.Name = "waybackspam"
	if _, err := parser.Parse(); err != nil {
		os.Exit(2)
	}

	domains, err := ioformats.ReadDomains(opts.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read domains:", err)
		os.Exit(1)
	}
	words, err := ioformats.ReadWords(opts.StopWords)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read stop words:", err)
		os.Exit(1)
	}

	cfg := config.Load()
	client := wayback.NewClient(cfg.ArchiveBaseURL, cfg.RequestTimeout, cfg.DialTimeout, cfg.MaxBodySize)
	sc := scorer.New(extract.New())
	sc.Threshold = cfg.SpamThreshold

	an := analyzer.New(client, sc)
	an.SnapshotDelay = cfg.SnapshotDelay
	an.DomainDelay = cfg.DomainDelay
	if !opts.Quiet {
		an.Progress = func(msg string) { fmt.Fprintln(os.Stderr, msg) }
	}

	reports := an.AnalyzeDomains(context.Background(), domains, words, opts.MaxSnapshots)

	var w *os.File
	if opts.Output == "" {
		w = os.Stdout
	} else {
		f, err := os.Create(opts.Output)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create output:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	items := make([]any, len(reports))
	for i, r := range reports {
		items[i] = r
	}
	if err := ioformats.WriteNDJSON(w, items); err != nil {
		fmt.Fprintln(os.Stderr, "write output:", err)
		os.Exit(1)
	}
}
