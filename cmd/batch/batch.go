package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"place_insights/internal/adapters/observability"
	"place_insights/internal/bootstrap"
	"place_insights/internal/domain"
)

var (
	batchFile    string
	batchWorkers int
)

func init() {
	rootCmd.Flags().StringVarP(&batchFile, "file", "f", "", "file with one URL per line (\"-\" for stdin, # comments)")
	rootCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "max URLs analyzed concurrently (default BATCH_WORKERS)")
}

// analyzeFunc is the per-URL pipeline; *app.Analyzer satisfies it via a method value.
type analyzeFunc func(ctx context.Context, rawURL string) (domain.Report, error)

type resultLine struct {
	URL    string         `json:"url"`
	Report *domain.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
	Kind   string         `json:"kind,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	// stdout carries results only
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	urls := append([]string(nil), args...)
	if batchFile != "" {
		fromFile, err := readURLs(batchFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return eris.New("no URLs given; pass them as arguments or with --file")
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}

	analyzer, closeFn, err := bootstrap.NewAnalyzer(ctx, cfg)
	if err != nil {
		return eris.Wrap(err, "init analyzer")
	}
	defer closeFn()

	log.Info().Int("urls", len(urls)).Int("workers", workers).Msg("batch starting")
	failed, err := processBatch(ctx, urls, workers, analyzer.AnalyzeURL, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	log.Info().Int("urls", len(urls)).Int("failed", failed).Msg("batch completed")
	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(urls))
	}
	return nil
}

// processBatch analyzes urls with at most workers in flight and writes one JSON
// line per URL to out, in input order. It returns the number of failed URLs.
func processBatch(ctx context.Context, urls []string, workers int, analyze analyzeFunc, out io.Writer) (int, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]resultLine, len(urls))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, u := range urls {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return 0, eris.Wrap(err, "batch interrupted")
		}

		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			defer sem.Release(1)

			rep, err := analyze(ctx, u)
			if err != nil {
				results[i] = resultLine{URL: u, Error: err.Error(), Kind: string(domain.KindOf(err))}
				log.Warn().Str("url", u).Err(err).Msg("analyze failed")
				return
			}
			results[i] = resultLine{URL: u, Report: &rep}
			log.Info().Str("url", u).Str("source", string(rep.AnalysisSource)).Msg("analyze ok")
		}(i, u)
	}
	wg.Wait()

	enc := json.NewEncoder(out)
	failed := 0
	for _, r := range results {
		if r.Report == nil {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return failed, eris.Wrap(err, "write result")
		}
	}
	return failed, nil
}

// readURLs reads one URL per line, skipping blanks and # comments.
func readURLs(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", path)
		}
		defer f.Close()
		r = f
	}

	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	return urls, nil
}
