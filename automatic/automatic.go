// Package automatic plays fully automated games against each other and
// collects the results.
package automatic

import (
	"bufio"
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/spymaster/agent"
	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/boardgen"
	"github.com/domino14/spymaster/config"
	"github.com/domino14/spymaster/roster"
	"github.com/domino14/spymaster/runner"
	"github.com/domino14/spymaster/store"
)

var (
	GamesPlayed = expvar.NewInt("spymasterGamesPlayed")
	IsPlaying   = expvar.NewInt("spymasterIsPlaying")
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

type Options struct {
	Games   int
	Threads int
	// LogFile receives one CSV line per finished game. Empty means no log.
	LogFile string
	// Occupant plays every seat. Nil uses the random bot with the
	// configured word list.
	Occupant agent.Occupant
	// Store keeps the games. Nil keeps them in memory.
	Store store.Store
}

func automatedRoster() *roster.Roster {
	r, err := roster.NewRoster(
		roster.NewTeam(board.Red, "Red", roster.Automated, roster.Automated),
		roster.NewTeam(board.Blue, "Blue", roster.Automated, roster.Automated),
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Play runs opts.Games automated games over opts.Threads workers and
// returns their report. Games already finished when ctx is cancelled are
// included in the report.
func Play(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	if opts.Games <= 0 {
		return nil, fmt.Errorf("number of games must be positive, have %d", opts.Games)
	}
	threads := max(opts.Threads, 1)

	gen, err := boardgen.NewWordListGeneratorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	occ := opts.Occupant
	if occ == nil {
		occ = agent.NewRandomBot(gen.Words())
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemoryStore()
	}
	reg := runner.NewRegistry(st, agent.NewGateway(occ, occ, agent.PolicyFromConfig(cfg)),
		runner.WithGuessDelay(0))

	logChan := make(chan string, 100)
	logDone := make(chan error, 1)
	go func() {
		logDone <- writeLog(opts.LogFile, logChan)
	}()

	report := NewReport()
	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(threads)
	log.Debug().Int("games", opts.Games).Int("threads", threads).Msg("starting-games")

	for i := 0; i < opts.Games; i++ {
		if ctx.Err() != nil {
			log.Info().Msg("got stop signal, exiting soon")
			break
		}
		eg.Go(func() error {
			res, err := playOne(ctx, reg, gen)
			if err != nil {
				return err
			}
			mu.Lock()
			report.Add(res)
			mu.Unlock()
			GamesPlayed.Add(1)
			logChan <- res.logLine()
			return nil
		})
	}
	err = eg.Wait()
	close(logChan)
	if logErr := <-logDone; logErr != nil && err == nil {
		err = logErr
	}
	log.Info().Int("games", report.Games).Msg("all-games-finished")
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return report, err
}

func playOne(ctx context.Context, reg *runner.Registry, gen boardgen.Generator) (Result, error) {
	gr, err := reg.Create(ctx, gen, automatedRoster())
	if err != nil {
		return Result{}, err
	}
	defer reg.Evict(gr.ID())
	if err := gr.Advance(ctx); err != nil {
		return Result{}, fmt.Errorf("game %s: %w", gr.ID(), err)
	}
	view := gr.View()
	if !view.Finished() {
		return Result{}, fmt.Errorf("game %s stopped unfinished in %v", gr.ID(), view.Phase())
	}
	return resultOf(view), nil
}

func writeLog(path string, lines <-chan string) error {
	if path == "" {
		for range lines {
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		for range lines {
		}
		return err
	}
	w := bufio.NewWriter(f)
	w.WriteString(logHeader)
	for line := range lines {
		w.WriteString(line)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
