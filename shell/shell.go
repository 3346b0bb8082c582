// Package shell is an interactive terminal client. The person at the
// keyboard sits in every human seat; automated seats play between
// commands.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/agent"
	"github.com/domino14/spymaster/boardgen"
	"github.com/domino14/spymaster/bot"
	"github.com/domino14/spymaster/config"
	"github.com/domino14/spymaster/pubsub"
	"github.com/domino14/spymaster/runner"
	"github.com/domino14/spymaster/store"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game loaded; start one with `new` or `load <id>`")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config   *config.Config
	ctx      context.Context
	occupant agent.Occupant
	registry *runner.Registry
	gen      boardgen.Generator
	closers  []func()

	cur   *runner.GameRunner
	color bool
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewShellController sets up the store, the automated occupants and the
// terminal.
func NewShellController(ctx context.Context, cfg *config.Config) (*ShellController, error) {
	sc, err := newController(ctx, cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mspymaster>\033[0m ",
		HistoryFile:     "/tmp/spymaster-readline.tmp",
		AutoComplete:    NewShellCompleter(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		sc.Close()
		return nil, err
	}
	sc.l = l
	sc.out = l.Stdout()
	sc.color = true
	return sc, nil
}

func newController(ctx context.Context, cfg *config.Config, out io.Writer) (*ShellController, error) {
	sc := &ShellController{config: cfg, ctx: ctx, out: out}

	var st store.Store
	if path := cfg.GetString(config.ConfigDBPath); path != "" {
		sq, err := store.NewSQLiteStore(cfg.DataFile(path))
		if err != nil {
			return nil, err
		}
		sc.closers = append(sc.closers, func() { sq.Close() })
		st = sq
	} else {
		st = store.NewMemoryStore()
	}

	occ, closeOcc, err := bot.OccupantFromConfig(ctx, cfg)
	if err != nil {
		sc.Close()
		return nil, err
	}
	sc.closers = append(sc.closers, closeOcc)
	sc.occupant = occ

	opts := runner.OptionsFromConfig(cfg)
	if cfg.GetBool(config.ConfigPublish) {
		nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			sc.Close()
			return nil, fmt.Errorf("nats connect: %w", err)
		}
		sc.closers = append(sc.closers, nc.Close)
		opts = append(opts, runner.WithPublisher(pubsub.NewNatsPublisher(nc)))
	}
	sc.registry = runner.NewRegistry(st,
		agent.NewGateway(occ, occ, agent.PolicyFromConfig(cfg)), opts...)

	// an LLM occupant deals the boards too
	if gen, ok := occ.(boardgen.Generator); ok {
		sc.gen = gen
	} else {
		gen, err := boardgen.NewWordListGeneratorFromConfig(cfg)
		if err != nil {
			sc.Close()
			return nil, err
		}
		sc.gen = gen
	}
	return sc, nil
}

// Close releases the store and any connections.
func (sc *ShellController) Close() {
	for i := len(sc.closers) - 1; i >= 0; i-- {
		sc.closers[i]()
	}
	sc.closers = nil
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if _, err := strconv.Atoi(fields[i]); err == nil {
				// a negative number is an argument
				args = append(args, fields[i])
				continue
			}
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit":
		sig <- syscall.SIGINT
		return nil, errors.New("sending quit signal")
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "clue":
		return sc.clue(cmd)
	case "guess":
		return sc.guess(cmd)
	case "pass":
		return sc.pass(cmd)
	case "history":
		return sc.history(cmd)
	case "rate":
		return sc.rate(cmd)
	case "list":
		return sc.list(cmd)
	case "stats":
		return sc.stats(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(line))
	return nil, fmt.Errorf("unknown command %q; try `help`", cmd.cmd)
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	defer sc.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if err != nil {
			if line == "exit" {
				break
			}
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
