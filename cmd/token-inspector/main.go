package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	tokeninspector "github.com/hellenic-development/token-inspector"
	"github.com/hellenic-development/token-inspector/pkg/config"
	"github.com/hellenic-development/token-inspector/pkg/formatter"
	"github.com/hellenic-development/token-inspector/pkg/mcp"
	"github.com/hellenic-development/token-inspector/pkg/observability"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

const version = tokeninspector.Version

type options struct {
	url            string
	file           string
	base           string
	format         string
	outputFile     string
	reportFile     string
	bundleDir      string
	downloadAssets string
	faviconFile    string
	configFile     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "token-inspector",
		Short: "Extract design tokens from web pages",
		Long: "A tool to extract colors, typography, spacing, effects, motion and assets from a web page " +
			"and export them as W3C design tokens, CSS custom properties, JavaScript or Figma Tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Config file (yaml, json or toml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "pretty", "Log format: pretty, console or json")
	v.BindPFlag("logger.level", flags.Lookup("log-level"))
	v.BindPFlag("logger.format", flags.Lookup("log-format"))

	rootCmd.Flags().StringVarP(&opts.url, "url", "u", "", "Page to inspect, e.g. stripe.com")
	rootCmd.Flags().StringVarP(&opts.file, "file", "f", "", "Local HTML file to inspect instead of a URL")
	rootCmd.Flags().StringVar(&opts.base, "base", "", "Base URL for relative references in --file")
	rootCmd.Flags().StringVarP(&opts.format, "format", "F", "json", "Export format: json, css, js, figma")
	rootCmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Export file (default: stdout)")
	rootCmd.Flags().StringVar(&opts.reportFile, "report", "", "Write a markdown report to this file")
	rootCmd.Flags().StringVar(&opts.bundleDir, "bundle-dir", "", "Write per-type and combined JSON bundles into this directory")
	rootCmd.Flags().StringSlice("categories", nil, "Token types to extract (colors, typography, spacing, effects, motion, assets)")
	rootCmd.Flags().String("renderer", config.EngineStatic, "Render engine: static or browser")
	rootCmd.Flags().StringVar(&opts.downloadAssets, "download-assets", "", `Download assets: "all", "icons" or an extension`)
	rootCmd.Flags().String("asset-dir", "assets", "Output directory for downloaded assets")
	rootCmd.Flags().StringVar(&opts.faviconFile, "favicon", "", "Save the site favicon to this file")
	rootCmd.MarkFlagsMutuallyExclusive("url", "file")

	v.BindPFlag("extraction.categories", rootCmd.Flags().Lookup("categories"))
	v.BindPFlag("render.engine", rootCmd.Flags().Lookup("renderer"))
	v.BindPFlag("assets.dir", rootCmd.Flags().Lookup("asset-dir"))

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extraction tools over the Model Context Protocol on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveMCP(cmd, v, opts)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "token-inspector version %s\n", version)
		},
	}

	rootCmd.AddCommand(mcpCmd, versionCmd)
	return rootCmd
}

// newLogger returns the colored terminal logger for the pretty format and a
// zap logger otherwise. The returned func flushes buffered entries.
func newLogger(cfg config.LoggerConfig, w io.Writer) (tokeninspector.Logger, func()) {
	if cfg.Format == "pretty" && cfg.LogFile == "" {
		return &cliLogger{w: w}, func() {}
	}
	logger := observability.New(cfg, w)
	return logger.Sugar(), func() { logger.Sync() }
}

func run(cmd *cobra.Command, v *viper.Viper, opts *options) error {
	if opts.url == "" && opts.file == "" {
		return errors.New("one of --url or --file is required")
	}
	format, err := formatter.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(v, opts.configFile)
	if err != nil {
		return err
	}
	if opts.faviconFile != "" {
		cfg.Acquisition.Favicon = true
	}

	stderr := cmd.ErrOrStderr()
	logger, flush := newLogger(cfg.Logger, stderr)
	defer flush()

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	if cfg.Logger.Format == "pretty" {
		cyan.Fprintln(stderr, "\n🎨 Token Inspector")
		cyan.Fprintln(stderr, "==================")
		cyan.Fprintln(stderr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := tokeninspector.Run(ctx, tokeninspector.Options{Config: cfg, Logger: logger}, tokeninspector.Job{
		URL:    opts.url,
		File:   opts.file,
		Base:   opts.base,
		Format: format,
		Assets: opts.downloadAssets,
	})
	if err != nil {
		return err
	}

	report := result.Report
	cyan.Fprintln(stderr, "\n📊 Extraction Summary:")
	fmt.Fprintf(stderr, "  • Source: %s\n", report.Source)
	fmt.Fprintf(stderr, "  • Elements analyzed: %d\n", report.Analyzed)
	counts := report.Catalog.Counts()
	for _, c := range token.Categories() {
		fmt.Fprintf(stderr, "  • %s: %d\n", c, counts[c])
	}
	if result.Assets != nil {
		fmt.Fprintf(stderr, "  • Assets downloaded: %d (%d failed)\n", len(result.Assets.Assets), len(result.Assets.Errors))
	}

	if opts.outputFile == "" {
		fmt.Fprint(cmd.OutOrStdout(), result.Export)
	} else if err := writeFile(stderr, opts.outputFile, result.Export); err != nil {
		return err
	}

	if opts.reportFile != "" {
		if err := writeFile(stderr, opts.reportFile, result.Markdown); err != nil {
			return err
		}
	}
	if opts.bundleDir != "" {
		if err := writeBundles(stderr, opts.bundleDir, report.Catalog); err != nil {
			return err
		}
	}
	if opts.faviconFile != "" && len(report.Favicon) > 0 {
		if err := writeFile(stderr, opts.faviconFile, string(report.Favicon)); err != nil {
			return err
		}
	}

	green.Fprintf(stderr, "\n✨ Extracted %d design tokens from %s\n\n", report.Catalog.Len(), report.Source)
	return nil
}

func writeBundles(w io.Writer, dir string, catalog *token.Catalog) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, c := range token.Categories() {
		if len(catalog.Tokens(c)) == 0 {
			continue
		}
		bundle, err := formatter.CategoryBundle(catalog, c)
		if err != nil {
			return err
		}
		if err := writeFile(w, filepath.Join(dir, formatter.BundleFilename(c)), bundle); err != nil {
			return err
		}
	}
	all, err := formatter.AllBundle(catalog)
	if err != nil {
		return err
	}
	return writeFile(w, filepath.Join(dir, formatter.AllBundleFilename), all)
}

func writeFile(w io.Writer, name, content string) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	green.Fprintf(w, "💾 Writing to %s... ", name)
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		red.Fprintln(w, "✗")
		return err
	}
	green.Fprintln(w, "✓")
	return nil
}

func serveMCP(cmd *cobra.Command, v *viper.Viper, opts *options) error {
	cfg, err := config.Load(v, opts.configFile)
	if err != nil {
		return err
	}

	// stdout carries the protocol, so logs always go to stderr through zap.
	logger := observability.New(cfg.Logger, cmd.ErrOrStderr())
	defer logger.Sync()

	in, err := tokeninspector.New(tokeninspector.Options{Config: cfg, Logger: logger.Sugar()})
	if err != nil {
		return err
	}
	defer in.Close()

	logger.Info("serving MCP on stdio", zap.String("version", version))
	return mcp.NewServer(in, logger).ServeStdio()
}

// cliLogger implements tokeninspector.Logger with colored terminal output.
type cliLogger struct {
	w io.Writer
}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(l.w, format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(l.w, "⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(l.w, "✗ "+format+"\n", args...)
}
