package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/wotreplay/format/battle"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Ext is the replay file extension matched by Expand.
const Ext = ".wotreplay"

// Result is the outcome of decoding one file. Exactly one of Replay and
// Err is set.
type Result struct {
	Path    string
	Replay  *battle.Replay
	Err     error
	Elapsed time.Duration
}

// Expand resolves paths into replay files. Directories are walked for
// *.wotreplay; plain files are kept whatever their extension.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), Ext) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("catalog: walk %s: %w", p, err)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

// Scan decodes paths on up to workers goroutines and hands each Result to
// fn from the calling goroutine. A non-nil error from fn stops the scan and
// is returned.
func Scan(ctx context.Context, paths []string, workers int, fn func(Result) error) error {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan string)
	results := make(chan Result)

	g.Go(func() error {
		defer close(jobs)
		for _, p := range paths {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for p := range jobs {
				start := time.Now()
				replay, err := battle.DecodeFile(p)
				elapsed := time.Since(start)
				log.Trace().Str("path", p).Dur("elapsed", elapsed).Err(err).Msg("catalog: decoded")
				select {
				case results <- Result{Path: p, Replay: replay, Err: err, Elapsed: elapsed}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var fnErr error
	for r := range results {
		if fnErr != nil {
			continue
		}
		if fnErr = fn(r); fnErr != nil {
			cancel()
		}
	}
	err := g.Wait()
	if fnErr != nil {
		return fnErr
	}
	return err
}
