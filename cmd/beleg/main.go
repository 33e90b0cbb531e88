package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/beleg/internal/config"
	"github.com/zombor/beleg/internal/extraction"
	"github.com/zombor/beleg/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// rootConfig holds the flags every subcommand shares
type rootConfig struct {
	debug      *bool
	localePath *string
	stdin      io.Reader
	stdout     io.Writer
}

// extractor builds the extraction engine from the configured locale
func (c *rootConfig) extractor() (*extraction.Extractor, error) {
	loc, err := config.LoadLocale(*c.localePath)
	if err != nil {
		return nil, fmt.Errorf("loading locale: %w", err)
	}
	return extraction.NewExtractor(loc)
}

// recognizerConfig holds the flags that select and configure the vision model
type recognizerConfig struct {
	kind        *string
	geminiKey   *string
	geminiModel *string
	geminiRPM   *int
	ollamaURL   *string
	ollamaModel *string
	enhance     *bool
}

func addRecognizerFlags(fs *ff.FlagSet) *recognizerConfig {
	return &recognizerConfig{
		kind:        fs.StringLong("recognizer", "gemini", "Vision recognizer: 'gemini', 'ollama' or 'none'"),
		geminiKey:   fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)"),
		geminiModel: fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name"),
		geminiRPM:   fs.IntLong("gemini-rpm", 10, "Maximum Gemini requests per minute (0 for unlimited)"),
		ollamaURL:   fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL"),
		ollamaModel: fs.StringLong("ollama-model", "qwen2.5vl", "Ollama vision model name (e.g., qwen2.5vl, llama3.2-vision, minicpm-v)"),
		enhance:     fs.BoolLong("enhance", "Enhance photos (grayscale, contrast, sharpen) before recognition"),
	}
}

// document builds the document router with the selected vision recognizer
func (c *recognizerConfig) document() (*scanning.Document, error) {
	var vision scanning.Recognizer
	switch *c.kind {
	case "gemini":
		apiKey := *c.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("gemini API key is required: set --gemini-key or GEMINI_API_KEY, or use --recognizer=none")
		}
		slog.Info("Initializing Gemini recognizer", "model", *c.geminiModel, "rpm", *c.geminiRPM)
		g, err := scanning.NewGemini(apiKey, *c.geminiModel, *c.geminiRPM)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini: %w", err)
		}
		vision = g
	case "ollama":
		slog.Info("Initializing Ollama recognizer", "url", *c.ollamaURL, "model", *c.ollamaModel)
		o, err := scanning.NewOllama(*c.ollamaURL, *c.ollamaModel)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama: %w", err)
		}
		vision = o
	case "none":
		slog.Info("No vision recognizer configured; only text, HTML, e-mail and text PDFs can be read")
	default:
		return nil, fmt.Errorf("invalid recognizer %q: valid values are gemini, ollama or none", *c.kind)
	}
	return scanning.NewDocument(vision, *c.enhance), nil
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func newRootCommand(stdin io.Reader, stdout io.Writer) (*ff.Command, *rootConfig, *bool) {
	rootFlags := ff.NewFlagSet("beleg")
	cfg := &rootConfig{
		debug:      rootFlags.BoolLong("debug", "Log at debug level, including ranked amount candidates"),
		localePath: rootFlags.StringLong("locale", "", "Locale file (YAML, JSON or TOML) overriding the built-in German locale"),
		stdin:      stdin,
		stdout:     stdout,
	}
	showVersion := rootFlags.BoolLong("version", "Show version information")

	root := &ff.Command{
		Name:      "beleg",
		Usage:     "beleg [FLAGS] <SUBCOMMAND> ...",
		ShortHelp: "read vendor, date, total and category from German and Austrian receipts",
		Flags:     rootFlags,
		Exec: func(context.Context, []string) error {
			return ff.ErrHelp
		},
	}
	root.Subcommands = []*ff.Command{
		newServeCommand(rootFlags, cfg),
		newParseCommand(rootFlags, cfg),
		newScanCommand(rootFlags, cfg),
		newExplainCommand(rootFlags, cfg),
		newExportCommand(rootFlags, cfg),
	}
	return root, cfg, showVersion
}

// selected returns the subcommand chosen during parsing, or root
func selected(root *ff.Command) *ff.Command {
	if cmd := root.GetSelected(); cmd != nil {
		return cmd
	}
	return root
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root, cfg, showVersion := newRootCommand(stdin, stdout)

	if err := root.Parse(args, ff.WithEnvVarPrefix("BELEG")); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Command(selected(root)))
		if errors.Is(err, ff.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return nil
	}

	setupLogging(stderr, *cfg.debug)

	if err := root.Run(ctx); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			fmt.Fprintf(stderr, "%s\n", ffhelp.Command(selected(root)))
			return nil
		}
		return err
	}
	return nil
}

func main() {
	// a missing .env file is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
