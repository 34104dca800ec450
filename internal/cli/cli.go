// Package cli implements the lyricsync command line.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/state"
)

// ErrNoLyrics is returned by commands that found nothing to print.
var ErrNoLyrics = errors.New("no lyrics found")

// CLI is the lyricsync command tree.
type CLI struct {
	Config    string `short:"c" help:"Extra config file, loaded last" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`

	Parse  ParseCmd  `cmd:"" help:"Print a lyrics file as JSON"`
	Fmt    FmtCmd    `cmd:"" help:"Print a lyrics file in canonical form"`
	At     AtCmd     `cmd:"" help:"Print the line active at playback positions"`
	Fetch  FetchCmd  `cmd:"" help:"Find lyrics for a track"`
	Search SearchCmd `cmd:"" help:"Search lrclib.net"`
	Play   PlayCmd   `cmd:"" help:"Play lyrics in the terminal"`
	Cache  CacheCmd  `cmd:"" help:"Manage the lyrics cache"`
	Embed  EmbedCmd  `cmd:"" help:"Embed lyrics in an audio file"`
}

// LrclibClient is the part of the lrclib client the commands use.
type LrclibClient interface {
	lyrics.Fetcher
	Search(ctx context.Context, query string) ([]lrclib.LyricsResult, error)
}

// Env carries the dependencies of the commands. Nil fields are filled from
// the configuration by Run.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Config     *config.Config
	Lrclib     LrclibClient
	OpenCache  func() (state.Interface, error)
	RunProgram func(tea.Model) error
	Now        func() time.Time
}

// Main runs lyricsync with the process streams and returns the exit code.
func Main(args []string) int {
	return Run(args, &Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
}

// Run parses args, runs the selected command and returns the exit code.
func Run(args []string, env *Env) int {
	var cli CLI
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("lyricsync"),
		kong.Description("Parse, fetch and play back synchronized lyrics."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(env.Stdout, env.Stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintf(env.Stderr, "lyricsync: %v\n", err)
		return 2
	}

	ctx, err := parser.Parse(args)
	if exitCode >= 0 {
		// --help
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "lyricsync: error: %v\n", err)
		return 2
	}

	if err := env.setup(&cli); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}

	if err := ctx.Run(env); err != nil {
		logging.Debug("command failed", "command", ctx.Command(), "error", err)
		fmt.Fprintf(env.Stderr, "lyricsync: %v\n", err)
		return 1
	}
	return 0
}

// setup loads the configuration, initializes logging and fills the
// missing dependencies.
func (e *Env) setup(cli *CLI) error {
	if e.Stdin == nil {
		e.Stdin = os.Stdin
	}
	if e.Config == nil {
		cfg, err := config.Load(cli.Config)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
		}
		e.Config = cfg
	}

	logCfg := e.Config.GetLogConfig()
	if cli.LogLevel != "" {
		logCfg.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		logCfg.Format = cli.LogFormat
	}
	level, err := logging.ParseLevel(logCfg.Level)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	format, err := logging.ParseFormat(logCfg.Format)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	logging.Init(e.Stderr, level, format)

	if e.Lrclib == nil {
		e.Lrclib = lrclib.New(
			lrclib.WithBaseURL(e.Config.Lrclib.URL),
			lrclib.WithTimeout(e.Config.LrclibTimeout()),
		)
	}
	if e.OpenCache == nil {
		path := e.Config.Cache.Path
		e.OpenCache = func() (state.Interface, error) {
			return state.Open(path)
		}
	}
	if e.RunProgram == nil {
		stderr := e.Stderr
		e.RunProgram = func(m tea.Model) error {
			// Log records written over the alternate screen would corrupt
			// it; hold them until the program exits.
			var held bytes.Buffer
			logging.Init(&held, level, format)
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			logging.Init(stderr, level, format)
			_, _ = held.WriteTo(stderr)
			return err
		}
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	return nil
}

// openCache opens the lyrics cache, or returns nil when it is disabled or
// cannot be opened. Commands that only read through the cache keep working
// without it.
func (e *Env) openCache() state.Interface {
	if e.Config.Cache.Disabled {
		return nil
	}
	cache, err := e.OpenCache()
	if err != nil {
		logging.Warn(errmsg.Format(errmsg.OpCacheOpen, err))
		return nil
	}
	return cache
}

// requireCache opens the lyrics cache for the cache commands.
func (e *Env) requireCache() (state.Interface, error) {
	if e.Config.Cache.Disabled {
		return nil, errors.New("lyrics cache is disabled in the configuration")
	}
	cache, err := e.OpenCache()
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpCacheOpen, err))
	}
	return cache, nil
}

// source builds the lyrics source chain.
func (e *Env) source(cache state.Interface) *lyrics.Source {
	opts := []lyrics.SourceOption{lyrics.WithFetcher(e.Lrclib)}
	if cache != nil {
		opts = append(opts, lyrics.WithCache(cache, e.Config.CacheTTL()))
	}
	return lyrics.NewSource(opts...)
}

// readText reads a lyrics file, or stdin for "-", as UTF-8 text.
func (e *Env) readText(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(e.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return lyrics.DecodeText(data)
}

func closeCache(cache state.Interface) {
	if cache == nil {
		return
	}
	if err := cache.Close(); err != nil {
		logging.Warn("could not close lyrics cache", "error", err)
	}
}
