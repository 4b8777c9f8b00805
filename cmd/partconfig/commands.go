package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/JonMunkholm/partconfig/internal/config"
	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/JonMunkholm/partconfig/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	envFile   string
	logLevel  string
	logFormat string

	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "partconfig",
		Short: "Configure pump spare parts for the ERP",
		Long: `partconfig builds item descriptions and quality blocks for pump
spare parts and writes the DataLoad files the ERP input automation replays.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web UI",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in cmd_serve.go
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate the description, quality block and optionally a DataLoad file for one part",
		Args:  cobra.NoArgs,
		RunE:  runGenerate, // Defined in cmd_generate.go
	}

	qualityCmd = &cobra.Command{
		Use:   "quality",
		Short: "Print the quality tags for a set of flags and a material",
		Args:  cobra.NoArgs,
		RunE:  runQuality, // Defined in cmd_generate.go
	}

	batchCmd = &cobra.Command{
		Use:   "batch [file.yaml]",
		Short: "Generate many parts from a YAML request list",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch, // Defined in cmd_batch.go
	}

	partsCmd = &cobra.Command{
		Use:   "parts",
		Short: "List the configured part categories",
		Args:  cobra.NoArgs,
		RunE:  runParts, // Defined in cmd_generate.go
	}
)

// Flags shared by generate and quality.
var (
	partKey        string
	attrPairs      []string
	flagNames      []string
	noStandard     bool
	materialType   string
	materialPrefix string
	materialName   string
	itemCode       string
	modeName       string
	drawing        string
	catalogCode    string
	spareClass     string
	outputDir      string
	jsonOutput     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (text, json)")

	for _, cmd := range []*cobra.Command{generateCmd, qualityCmd} {
		cmd.Flags().StringSliceVar(&flagNames, "flag", nil, "service flag to enable (repeatable): "+flagList())
		cmd.Flags().BoolVar(&noStandard, "no-standard", false, "omit the standard [SQ58] and [CORP-ENG-0115] tags")
		cmd.Flags().StringVar(&materialType, "material-type", "", "material type, e.g. \"CAST STAINLESS STEEL\" or MISCELLANEOUS")
		cmd.Flags().StringVar(&materialPrefix, "material-prefix", "", "material prefix, e.g. A351_")
		cmd.Flags().StringVar(&materialName, "material-name", "", "material name, e.g. CG3M")
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
	}

	generateCmd.Flags().StringVarP(&partKey, "part", "p", "", "part category (see 'partconfig parts')")
	generateCmd.Flags().StringArrayVarP(&attrPairs, "attr", "a", nil, "attribute as name=value (repeatable)")
	generateCmd.Flags().StringVarP(&itemCode, "item", "i", "", "ERP item code")
	generateCmd.Flags().StringVarP(&modeName, "mode", "m", "", "write a DataLoad file: create or update")
	generateCmd.Flags().StringVar(&drawing, "drawing", "", "drawing number (Disegno)")
	generateCmd.Flags().StringVar(&catalogCode, "catalog", "", "catalog reference")
	generateCmd.Flags().StringVar(&spareClass, "spare-class", "", "override the part's default spare class")
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", "", "DataLoad output directory (default $OUTPUT_DIR)")
	_ = generateCmd.MarkFlagRequired("part")

	batchCmd.Flags().StringVarP(&outputDir, "out", "o", "", "DataLoad output directory (default $OUTPUT_DIR)")

	rootCmd.AddCommand(serveCmd, generateCmd, qualityCmd, batchCmd, partsCmd)
}

// loadConfig reads .env and the environment, then configures logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	// Overload overwrites existing env vars; a missing file is fine
	if err := godotenv.Overload(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	if logLevel != "" {
		os.Setenv("LOG_LEVEL", logLevel)
	}
	if logFormat != "" {
		os.Setenv("LOG_FORMAT", logFormat)
	}
	if outputDir != "" {
		os.Setenv("OUTPUT_DIR", outputDir)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String(), "command", cmd.Name())
	return nil
}

// withApp builds the app for the duration of fn.
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return userError(err)
	}
	defer a.Close()
	return fn(a)
}

func flagList() string {
	return strings.Join(core.FlagNames(), ", ")
}
