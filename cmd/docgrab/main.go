package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docgrab/docgrab/internal/common"
	"github.com/docgrab/docgrab/internal/export"
	"github.com/docgrab/docgrab/internal/extract"
	"github.com/docgrab/docgrab/internal/llm/gemini"
	"github.com/docgrab/docgrab/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "docgrab",
		Short:         "Extract text and tables from images, PDFs and Word documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(logger), extractCmd(logger), modelsCmd(logger))

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// newExtractor loads config, fails fast on a missing credential, and
// wires the Gemini-backed pipeline.
func newExtractor(ctx context.Context, logger *slog.Logger) (*extract.Extractor, *gemini.Client, *common.Config, error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	ex := extract.NewExtractor(extract.Config{
		Pdftoppm: cfg.PDF.Pdftoppm,
		DPI:      cfg.PDF.DPI,
		MaxPages: cfg.PDF.MaxPages,
	}, client, logger)
	return ex, client, cfg, nil
}

func serveCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the browser upload/extract/download surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, _, cfg, err := newExtractor(cmd.Context(), logger)
			if err != nil {
				return err
			}
			srv := server.New(ex, logger)
			logger.Info("server.listen", "addr", cfg.Server.HTTPAddr)
			return http.ListenAndServe(cfg.Server.HTTPAddr, srv.Routes())
		},
	}
}

func extractCmd(logger *slog.Logger) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract one file and write TXT, CSV and XLSX exports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, _, _, err := newExtractor(cmd.Context(), logger)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := ex.Extract(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				logger.Warn("extract.warning", "message", w)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			files := []export.File{export.TextFile(res)}
			files = append(files, export.CSVFiles(res)...)
			if xlsx, err := export.XLSX(res); err != nil {
				logger.Warn("export.xlsx_failed", "error", err)
			} else {
				files = append(files, export.File{Name: export.XLSXFilename, Data: xlsx})
			}
			for _, f := range files {
				dst := filepath.Join(outDir, f.Name)
				if err := os.WriteFile(dst, f.Data, 0o644); err != nil {
					return err
				}
				logger.Info("extract.wrote", "path", dst, "bytes", len(f.Data))
			}
			logger.Info("extract.ok", "tables", len(res.Tables), "warnings", len(res.Warnings))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write exports into")
	return cmd
}

func modelsCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models on this API key that support content generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := newExtractor(cmd.Context(), logger)
			if err != nil {
				return err
			}
			models, err := client.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			if len(models) == 0 {
				fmt.Println("no models supporting content generation were found for this API key")
				return nil
			}
			for _, m := range models {
				fmt.Printf("%s\t%s\n", m.Name, m.Description)
			}
			return nil
		},
	}
}
