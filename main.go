package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"flowarrows/connections"
	"flowarrows/core"
	"flowarrows/export"
	"flowarrows/pathfinding"
	"flowarrows/terminal"
	"flowarrows/validation"
)

// options holds the parsed command line.
type options struct {
	format      string
	outputFile  string
	configFile  string
	edit        bool
	hover       string
	interactive bool
	debug       bool
	input       string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	if err := run(opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("flowarrows", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.format, "format", "json", "Export format: json, svg, png")
	fs.StringVar(&opts.outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&opts.configFile, "config", "", "JSON file overriding the editor constants")
	fs.BoolVar(&opts.edit, "edit", false, "Force edit mode on")
	fs.StringVar(&opts.hover, "hover", "", "Panel id to treat as hovered")
	fs.BoolVar(&opts.interactive, "i", false, "Open the interactive viewer")
	fs.BoolVar(&opts.debug, "debug", false, "Log routing decisions to stderr")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: flowarrows [options] [snapshot.json]\n\n")
		fmt.Fprintf(stderr, "Routes the connectors of a flow snapshot and exports them.\n")
		fmt.Fprintf(stderr, "Reads the snapshot from stdin when no file is given.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  flowarrows flow.json                      # Arrow list as JSON\n")
		fmt.Fprintf(stderr, "  flowarrows -format svg -o flow.svg flow.json\n")
		fmt.Fprintf(stderr, "  flowarrows -edit -hover panel1 flow.json  # Include hint arrows\n")
		fmt.Fprintf(stderr, "  flowarrows -i flow.json                   # Interactive viewer\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return opts, fmt.Errorf("expected at most one snapshot file, got %d", fs.NArg())
	}
	opts.input = fs.Arg(0)
	return opts, nil
}

func run(opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.debug {
		pathfinding.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer pathfinding.SetLogger(nil)
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, export.GetAvailableFormats())
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(opts.input, stdin)
	if err != nil {
		return err
	}
	if opts.configFile != "" {
		if err := overlayConfig(&snap, opts.configFile); err != nil {
			return err
		}
	}
	if opts.edit {
		snap.Context.EditMode = true
	}
	if opts.hover != "" {
		snap.Context.HoveredPanel = opts.hover
	}

	if opts.interactive {
		snap, err = terminal.Run(snap)
		if err != nil {
			return fmt.Errorf("interactive viewer: %w", err)
		}
		if opts.outputFile == "" {
			return nil
		}
	}

	cfg := snap.EffectiveConfig()
	gen, err := connections.NewArrowGenerator(cfg)
	if err != nil {
		return err
	}
	scene := export.Scene{
		Config: cfg,
		Panels: snap.Panels,
		Arrows: gen.Generate(snap.Panels, snap.Context),
		Size:   snap.Context.Size,
	}

	data, err := exporter.Export(scene)
	if err != nil {
		return fmt.Errorf("exporting %s: %w", exporter.GetFormatName(), err)
	}

	if opts.outputFile != "" {
		if err := os.WriteFile(opts.outputFile, data, 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(stderr, "Successfully exported %d arrows to %s\n", len(scene.Arrows), opts.outputFile)
		return nil
	}
	_, err = stdout.Write(data)
	return err
}

// loadSnapshot reads, validates and decodes a snapshot document.
func loadSnapshot(filename string, stdin io.Reader) (connections.Snapshot, error) {
	var snap connections.Snapshot

	var data []byte
	var err error
	if filename == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return snap, fmt.Errorf("reading snapshot: %w", err)
	}

	validator, err := validation.NewSnapshotValidator()
	if err != nil {
		return snap, err
	}
	if err := validator.Validate(data); err != nil {
		return snap, err
	}

	// an embedded config decodes over the defaults
	cfg := core.DefaultConfig()
	snap.Config = &cfg
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parsing snapshot: %w", err)
	}
	if err := snap.Config.Validate(); err != nil {
		return snap, err
	}
	return snap, nil
}

// overlayConfig decodes a config file over the snapshot's effective config.
func overlayConfig(snap *connections.Snapshot, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	cfg := snap.EffectiveConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	snap.Config = &cfg
	return nil
}
