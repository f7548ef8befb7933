package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Hanaasagi/beetag/cmd"
	"github.com/Hanaasagi/beetag/internal/logger"
	"github.com/Hanaasagi/beetag/internal/report"
	"github.com/Hanaasagi/beetag/internal/search"
	"github.com/Hanaasagi/beetag/pkg/classifier"
	"github.com/Hanaasagi/beetag/pkg/corpus"
	"github.com/Hanaasagi/beetag/pkg/imagedecode"
	"github.com/Hanaasagi/beetag/pkg/pixelscan"
	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const appName = "beetag"

var (
	Version     = "0.1.0"
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

var (
	defaultConfigPath = filepath.Join(xdg.ConfigHome, appName, "config.toml")
	defaultLogPath    = filepath.Join(xdg.StateHome, appName, appName+".log")
)

// FlagConfig holds command-line overrides of the config file.
type FlagConfig struct {
	configPath string
	logFile    string
	logLevel   string
	threshold  int
	workers    int
	decoder    string
	gray       bool
	extensions []string
}

// App carries the resolved configuration shared by all subcommands.
type App struct {
	flags  FlagConfig
	config *Config
	stdout io.Writer
	stderr io.Writer
	logs   io.Closer
}

// setup loads the config file, applies flags the user set explicitly and
// starts file logging.
func (a *App) setup(c *cobra.Command) error {
	config, err := LoadConfigFromFile(a.flags.configPath)
	if err != nil {
		return err
	}

	flags := c.Flags()
	if flags.Changed("threshold") {
		config.Core.Threshold = a.flags.threshold
	}
	if flags.Changed("workers") {
		config.Core.Workers = a.flags.workers
	}
	if flags.Changed("decoder") {
		config.Core.Decoder = a.flags.decoder
	}
	if flags.Changed("gray") {
		config.Core.GrayConversion = a.flags.gray
	}
	if flags.Changed("ext") {
		config.Core.Extensions = a.flags.extensions
	}
	if flags.Changed("log-level") {
		config.Core.LogLevel = a.flags.logLevel
	}
	if err := config.Validate(); err != nil {
		return err
	}
	a.config = config

	logs, err := logger.InitLogger(a.flags.logFile, config.Core.LogLevel)
	if err != nil {
		return err
	}
	a.logs = logs

	slog.Debug("Configuration loaded", "config", a.flags.configPath, "threshold", config.Core.Threshold,
		"workers", config.Core.Workers, "decoder", config.Core.Decoder)
	return nil
}

func (a *App) teardown() {
	if a.logs != nil {
		a.logs.Close() // nolint: errcheck
		a.logs = nil
	}
}

func (a *App) threshold() pixelscan.Threshold {
	return pixelscan.Threshold(a.config.Core.Threshold)
}

func (a *App) classifier() (*classifier.Classifier, error) {
	return classifier.New(a.threshold())
}

func (a *App) decoder() (imagedecode.Decoder, error) {
	return imagedecode.New(a.config.Core.Decoder, imagedecode.WithGrayConversion(a.config.Core.GrayConversion))
}

func (a *App) scan(root string) (*corpus.LabeledImageSet, error) {
	return corpus.Scan(root, corpus.WithExtensions(a.config.Core.Extensions...))
}

// searcher builds a Searcher reporting mistakes of the named corpus on stderr.
func (a *App) searcher(name string, sweep bool) (*search.Searcher, error) {
	d, err := a.decoder()
	if err != nil {
		return nil, err
	}

	opts := []search.Option{
		search.WithReporter(report.NewMistakeLogger(a.stderr, report.IsTerminal(a.stderr)).ForSplit(name)),
		search.WithWorkers(a.config.Core.Workers),
	}
	if sweep {
		opts = append(opts, search.WithProgress(report.NewProgress(a.stderr, "sweeping "+name).Update))
	}
	return search.New(d, opts...), nil
}

func (a *App) printer() (*report.Printer, error) {
	palette, err := report.NewPalette(a.config.Colors.Tagged, a.config.Colors.Untagged, a.config.Colors.Mistake)
	if err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}
	return report.NewPrinter(a.stdout, palette), nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &App{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Classify honeybee crops as tagged or untagged by pixel thresholding",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Find and evaluate the brightness threshold that tells tagged from untagged bees. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return app.setup(c)
		},
		PersistentPostRun: func(c *cobra.Command, args []string) {
			app.teardown()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&app.flags.configPath, "config", "c", defaultConfigPath, "Path of the TOML config file")
	pf.StringVar(&app.flags.logFile, "log-file", defaultLogPath, "Append logs to this file")
	pf.StringVar(&app.flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.IntVarP(&app.flags.threshold, "threshold", "t", int(classifier.DefaultThreshold), "Intensity threshold in [0, 255]")
	pf.IntVarP(&app.flags.workers, "workers", "j", 1, "Goroutines used for the threshold sweep")
	pf.StringVar(&app.flags.decoder, "decoder", imagedecode.DefaultBackend, fmt.Sprintf("Image decoder backend %v", imagedecode.Backends()))
	pf.BoolVar(&app.flags.gray, "gray", false, "Convert colour images to grayscale instead of rejecting them")
	pf.StringSliceVar(&app.flags.extensions, "ext", nil, "Image file extensions to scan (default .png)")

	rootCmd.AddGroup(cmd.ThresholdGroup, cmd.SamplesGroup)
	rootCmd.AddCommand(
		newSearchCmd(app),
		newCountCmd(app),
		newRunCmd(app),
		newClassifyCmd(app),
		newEvaluateCmd(app),
		newVersionCmd(),
	)

	cmd.Install(rootCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		slog.Error("Error executing command", "error", err)
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
