// Package main is the entry point for the marginalia export tool.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/bundle"
	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/export"
	"github.com/dshills/marginalia/internal/format"
	"github.com/dshills/marginalia/internal/style"
	"github.com/dshills/marginalia/internal/style/hook"
	"github.com/dshills/marginalia/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	bundlePath string
	textPath   string
	formatName string
	outPath    string
	stylePath  string
	hookPath   string
	inspect    bool
	watchMode  bool
	logLevel   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, ok := parseFlags()
	if !ok {
		return 2
	}

	setupLogging(opts.logLevel)

	st := style.Default()
	if opts.stylePath != "" {
		var err error
		st, err = style.Load(opts.stylePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	var styleHook *hook.Hook
	if opts.hookPath != "" {
		var err error
		styleHook, err = hook.Load(opts.hookPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer styleHook.Close()
	}

	job := exportJob{opts: opts, exporter: export.New(st), hook: styleHook}

	if err := job.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !opts.watchMode {
			return 1
		}
	}

	if opts.watchMode {
		return runWatch(job)
	}
	return 0
}

// runWatch re-runs the job whenever a watched input changes, until
// interrupted.
func runWatch(job exportJob) int {
	files := []string{job.opts.bundlePath}
	if job.opts.textPath != "" {
		files = append(files, job.opts.textPath)
	}
	if tf := job.bundleTextFile(); tf != "" {
		files = append(files, tf)
	}

	w, err := watch.New(func(path string) {
		slog.Info("input changed, re-exporting", "path", path)
		if err := job.run(); err != nil {
			slog.Error("export failed", "error", err)
		}
	}, files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start watcher: %v\n", err)
		return 1
	}
	defer w.Close()

	slog.Info("watching for changes", "files", files)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	return 0
}

// exportJob holds everything needed to run one export end to end.
type exportJob struct {
	opts     options
	exporter *export.Exporter
	hook     *hook.Hook
}

// run loads inputs fresh and writes one export.
func (j exportJob) run() error {
	text, blocks, highlights, err := j.loadInputs()
	if err != nil {
		return err
	}

	highlights, err = hook.Recolor(j.hook, highlights)
	if err != nil {
		return err
	}

	var out string
	if j.opts.inspect {
		doc, regions, err := j.exporter.Resolve(text, blocks, highlights)
		if err != nil {
			return err
		}
		out, err = bundle.Report(doc, regions)
		if err != nil {
			return err
		}
	} else {
		out, err = j.exporter.Export(text, blocks, highlights)
		if err != nil {
			return err
		}
	}

	if j.opts.outPath == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(j.opts.outPath, []byte(out+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", j.opts.outPath, err)
	}
	slog.Debug("wrote export", "path", j.opts.outPath, "bytes", len(out))
	return nil
}

// loadInputs resolves the text, block list, and highlight set from the
// bundle and flags. Explicit blocks win; otherwise the input-format
// handlers derive them.
func (j exportJob) loadInputs() (string, []document.Block, []annotation.Highlight, error) {
	var rawText string
	var blocks []document.Block
	var highlights []annotation.Highlight
	formatName := j.opts.formatName

	if j.opts.bundlePath != "" {
		b, err := bundle.Load(j.opts.bundlePath)
		if err != nil {
			return "", nil, nil, err
		}
		if err := b.ResolveText(filepath.Dir(j.opts.bundlePath)); err != nil {
			return "", nil, nil, err
		}
		rawText = b.Text
		blocks = b.Blocks
		highlights = b.Highlights
		if formatName == "" {
			formatName = b.Format
		}
	} else {
		data, err := os.ReadFile(j.opts.textPath)
		if err != nil {
			return "", nil, nil, fmt.Errorf("reading text %s: %w", j.opts.textPath, err)
		}
		rawText = string(data)
	}

	// Explicit blocks address the text as-is; otherwise a format handler
	// normalizes the text and derives blocks from its structure.
	if blocks != nil {
		return rawText, blocks, highlights, nil
	}

	var doc *document.Document
	var err error
	if formatName != "" {
		h, herr := format.ByName(formatName)
		if herr != nil {
			return "", nil, nil, herr
		}
		doc, blocks, err = h.Normalize([]byte(rawText))
	} else {
		doc, blocks, err = format.Normalize([]byte(rawText))
	}
	if err != nil {
		return "", nil, nil, err
	}
	return doc.Text(), blocks, highlights, nil
}

// bundleTextFile returns the absolute path of the bundle's text_file, if
// the bundle loads and has one. Watch mode uses it to track the text.
func (j exportJob) bundleTextFile() string {
	if j.opts.bundlePath == "" {
		return ""
	}
	b, err := bundle.Load(j.opts.bundlePath)
	if err != nil || b.TextFile == "" {
		return ""
	}
	path := b.TextFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(j.opts.bundlePath), path)
	}
	return path
}

func setupLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func parseFlags() (options, bool) {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.bundlePath, "bundle", "", "Path to annotation bundle (JSON or YAML)")
	flag.StringVar(&opts.bundlePath, "b", "", "Path to annotation bundle (shorthand)")
	flag.StringVar(&opts.textPath, "text", "", "Path to raw document text (no annotations)")
	flag.StringVar(&opts.textPath, "t", "", "Path to raw document text (shorthand)")
	flag.StringVar(&opts.formatName, "format", "", "Input format handler (markdown, plaintext)")
	flag.StringVar(&opts.formatName, "f", "", "Input format handler (shorthand)")
	flag.StringVar(&opts.outPath, "o", "", "Output file (default stdout)")
	flag.StringVar(&opts.stylePath, "style", "", "Path to TOML style pack")
	flag.StringVar(&opts.hookPath, "style-hook", "", "Path to Lua tag-color hook")
	flag.BoolVar(&opts.inspect, "inspect", false, "Emit the region partition as JSON instead of markup")
	flag.BoolVar(&opts.watchMode, "watch", false, "Re-export when inputs change")
	flag.BoolVar(&opts.watchMode, "w", false, "Re-export when inputs change (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Marginalia - annotated document export\n\n")
		fmt.Fprintf(os.Stderr, "Usage: marginalia [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  marginalia -b review.json              Export a bundle to stdout\n")
		fmt.Fprintf(os.Stderr, "  marginalia -b review.yaml -o out.mk    Export to a file\n")
		fmt.Fprintf(os.Stderr, "  marginalia -b review.json -inspect     Show the region partition\n")
		fmt.Fprintf(os.Stderr, "  marginalia -b review.json -w -o out.mk Re-export on change\n")
		fmt.Fprintf(os.Stderr, "  marginalia -t notes.md                 Typeset plain text, no annotations\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		return opts, false
	}
	if showVersion {
		fmt.Printf("marginalia %s (%s, built %s)\n", version, commit, date)
		return opts, false
	}
	if opts.bundlePath == "" && opts.textPath == "" {
		fmt.Fprintln(os.Stderr, "Error: one of -bundle or -text is required")
		flag.Usage()
		return opts, false
	}
	if opts.bundlePath != "" && opts.textPath != "" {
		fmt.Fprintln(os.Stderr, "Error: -bundle and -text are mutually exclusive")
		return opts, false
	}
	if opts.watchMode && opts.outPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -watch requires -o")
		return opts, false
	}

	return opts, true
}
