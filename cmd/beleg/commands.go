package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/beleg/internal/receipt"
	"github.com/zombor/beleg/internal/scanning"
)

func newServeCommand(parent *ff.FlagSet, cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("serve").SetParent(parent)
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "beleg.db", "Database file path")
		storagePath = fs.StringLong("storage", "./belege", "Storage directory path")
		recognizer  = addRecognizerFlags(fs)
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
	)

	return &ff.Command{
		Name:      "serve",
		Usage:     "beleg serve [FLAGS]",
		ShortHelp: "run the HTTP API",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			extractor, err := cfg.extractor()
			if err != nil {
				return err
			}

			slog.Info("Initializing database...", "path", *dbPath)
			db, err := receipt.NewBoltDB(*dbPath)
			if err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}
			defer db.Close()

			doc, err := recognizer.document()
			if err != nil {
				return err
			}
			defer doc.Close()

			slog.Info("Initializing storage...", "path", *storagePath)
			store, err := receipt.NewLocalStorage(*storagePath)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			service := receipt.NewService(db, doc, store, extractor)
			server := receipt.NewServer(service, receipt.BasicAuth{
				Username: *authUser,
				Password: *authPass,
			})
			if *authUser != "" || *authPass != "" {
				slog.Info("Basic auth enabled", "user", *authUser)
			}

			return server.Run(ctx, fmt.Sprintf(":%d", *port))
		},
	}
}

func newParseCommand(parent *ff.FlagSet, cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("parse").SetParent(parent)
	return &ff.Command{
		Name:      "parse",
		Usage:     "beleg parse [FLAGS] [FILE|-]",
		ShortHelp: "extract invoice fields from a text file or stdin",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			extractor, err := cfg.extractor()
			if err != nil {
				return err
			}
			text, err := readText(ctx, cfg, args)
			if err != nil {
				return err
			}
			return writeJSON(cfg.stdout, receipt.Analyze(extractor, text))
		},
	}
}

func newScanCommand(parent *ff.FlagSet, cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("scan").SetParent(parent)
	recognizer := addRecognizerFlags(fs)
	return &ff.Command{
		Name:      "scan",
		Usage:     "beleg scan [FLAGS] FILE",
		ShortHelp: "read a document (photo, PDF, HTML, e-mail) and extract invoice fields",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("scan needs exactly one file")
			}
			extractor, err := cfg.extractor()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			doc, err := recognizer.document()
			if err != nil {
				return err
			}
			defer doc.Close()

			contentType := scanning.DetectContentType(filepath.Base(args[0]), "", data)
			text, err := doc.Recognize(ctx, data, contentType)
			if err != nil {
				return fmt.Errorf("recognizing %s: %w", args[0], err)
			}

			return writeJSON(cfg.stdout, struct {
				Text        string `json:"text"`
				ContentType string `json:"content_type"`
				receipt.ParseResult
			}{
				Text:        text,
				ContentType: contentType,
				ParseResult: receipt.Analyze(extractor, text),
			})
		},
	}
}

func newExplainCommand(parent *ff.FlagSet, cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("explain").SetParent(parent)
	return &ff.Command{
		Name:      "explain",
		Usage:     "beleg explain [FLAGS] [FILE|-]",
		ShortHelp: "show the ranked amount candidates and their scores",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			extractor, err := cfg.extractor()
			if err != nil {
				return err
			}
			text, err := readText(ctx, cfg, args)
			if err != nil {
				return err
			}

			candidates := extractor.AmountCandidates(text)
			if len(candidates) == 0 {
				if amount, ok := extractor.ExtractAmount(text); ok {
					fmt.Fprintf(cfg.stdout, "no scored candidates, fallback amount %s\n", amount.StringFixed(2))
					return nil
				}
				fmt.Fprintln(cfg.stdout, "no amount found")
				return nil
			}

			tw := tabwriter.NewWriter(cfg.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tVALUE\tSCORE\tFAMILY\tPOSITION\tSPAN")
			for i, c := range candidates {
				fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%d\t%q\n", i+1, c.Value.StringFixed(2), c.Score, c.Family, c.Position, c.Span)
			}
			return tw.Flush()
		},
	}
}

func newExportCommand(parent *ff.FlagSet, cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("export").SetParent(parent)
	var (
		dbPath  = fs.StringLong("db", "beleg.db", "Database file path")
		outPath = fs.StringLong("out", "belege.xlsx", "Output XLSX file, or - for stdout")
	)
	return &ff.Command{
		Name:      "export",
		Usage:     "beleg export [FLAGS]",
		ShortHelp: "write the stored receipts to an XLSX workbook",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			db, err := receipt.NewBoltDB(*dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			receipts, err := db.ListReceipts()
			if err != nil {
				return fmt.Errorf("listing receipts: %w", err)
			}

			if *outPath == "-" {
				return receipt.ExportXLSX(receipts, cfg.stdout)
			}

			f, err := os.Create(*outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", *outPath, err)
			}
			if err := receipt.ExportXLSX(receipts, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", *outPath, err)
			}
			slog.Info("Exported receipts", "count", len(receipts), "path", *outPath)
			return nil
		},
	}
}

// readText reads a plain text receipt from the named file, or stdin for "-"
func readText(ctx context.Context, cfg *rootConfig, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case len(args) == 0 || args[0] == "-":
		data, err = io.ReadAll(cfg.stdin)
	default:
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return scanning.NewDocument(nil, false).Recognize(ctx, data, "text/plain")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
