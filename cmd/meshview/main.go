package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"meshview/internal/config"
	"meshview/internal/feed"
	"meshview/internal/session"
	"meshview/internal/tui"
)

var errStdinTerminal = errors.New("-source stdin needs piped input, not a terminal")

func main() {
	cfg := config.Default()
	if path := configPath(os.Args[1:]); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			log.Fatal(err)
		}
	}

	flag.String("config", "", "YAML settings file; flags override its values")
	flag.StringVar(&cfg.Source, "source", cfg.Source, "Feed source: ws, file, stdin or sim")
	flag.StringVar(&cfg.URL, "url", cfg.URL, "Relay websocket URL (with -source ws)")
	flag.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Read recorded messages from this file (with -source file)")
	flag.DurationVar(&cfg.Pace, "pace", cfg.Pace, "Sleep between recorded messages (e.g. 200ms)")
	flag.IntVar(&cfg.SimSize, "sim-size", cfg.SimSize, "Nodes per side of the simulated mesh")
	flag.DurationVar(&cfg.SimInterval, "sim-interval", cfg.SimInterval, "Time between simulated updates")
	flag.Float64Var(&cfg.Shrink, "shrink", cfg.Shrink, "Zone shrink factor towards the centroid, in (0,1]")
	flag.BoolVar(&cfg.NonNegativeMin, "non-negative-min", cfg.NonNegativeMin, "Take the colour scale minimum over non-negative values only, unless all values are negative")
	flag.Float64Var(&cfg.VertexRadius, "vertex-radius", cfg.VertexRadius, "Vertex disc radius as a fraction of the mesh size")
	flag.Func("palette", "Comma-separated colour stops (e.g. #FA8383,#9DD3CC,#FFE4B3)", func(s string) error {
		cfg.Palette = strings.Split(s, ",")
		return nil
	})
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append debug logs to this file")
	flag.BoolVar(&cfg.AltScreen, "alt-screen", cfg.AltScreen, "Use the terminal alternate screen buffer")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "meshview")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	src, closeSrc, err := newSource(cfg)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
	defer closeSrc()

	opts := session.Options{
		Shrink:         cfg.Shrink,
		Palette:        cfg.Palette,
		NonNegativeMin: cfg.NonNegativeMin,
		VertexRadius:   cfg.VertexRadius,
	}
	var m tea.Model
	if flag.NArg() > 0 {
		m = tui.NewWithPath(opts, flag.Arg(0))
	} else {
		m = tui.New(opts)
	}

	progOpts := []tea.ProgramOption{tea.WithMouseAllMotion()}
	if !stdinIsTerminal() {
		// stdin may be the feed; keys come from the terminal
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	if cfg.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, progOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := src.Run(ctx, func(msg feed.Message) { p.Send(tui.FeedMsg(msg)) })
		if ctx.Err() == nil {
			p.Send(tui.FeedDoneMsg{Err: err})
		}
	}()

	if _, err := p.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}

func newSource(cfg config.Config) (feed.Source, func(), error) {
	noop := func() {}
	switch cfg.Source {
	case config.SourceWebSocket:
		return &feed.WebSocket{URL: cfg.URL}, noop, nil
	case config.SourceFile:
		f, err := os.Open(cfg.InputPath)
		if err != nil {
			return nil, nil, err
		}
		return &feed.Reader{R: f, Pace: cfg.Pace}, func() { f.Close() }, nil
	case config.SourceStdin:
		if stdinIsTerminal() {
			return nil, nil, errStdinTerminal
		}
		return &feed.Reader{R: os.Stdin, Pace: cfg.Pace}, noop, nil
	default:
		sim, err := feed.NewSimulator(feed.Braid(cfg.SimSize))
		if err != nil {
			return nil, nil, err
		}
		sim.Interval = cfg.SimInterval
		return sim, noop, nil
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// configPath finds -config before flag parsing so that the file provides
// defaults the other flags can override.
func configPath(args []string) string {
	for i, a := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
