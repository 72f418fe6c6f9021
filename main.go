package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/mcncl/yaml2json/internal/config"
	"github.com/mcncl/yaml2json/internal/converter"
	"github.com/mcncl/yaml2json/internal/errors"
	"github.com/mcncl/yaml2json/internal/logging"
)

// CLI defines the command-line interface
var CLI struct {
	Input   string           `arg:"" help:"Path to the YAML file to convert." type:"path"`
	Output  string           `arg:"" optional:"" help:"Path to the JSON file to write. Defaults to the input path with a .json extension." type:"path"`
	Config  string           `help:"Path to a config file. Defaults to the nearest .yaml2json.yml." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *zap.Logger
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("yaml2json"),
		kong.Description("Convert a YAML document into a JSON document"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("yaml2json version %s", Version)},
	)

	_, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := config.LoadConfigWithCLI(CLI.Config, CLI.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to load configuration", err)))
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to create logger", err)))
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	err = run(&Context{Config: cfg, Logger: logger, Stdout: os.Stdout})
	if err != nil {
		logger.Debug("Conversion failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: yaml2json --help\n")
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := ctx.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stdout := ctx.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	conv := converter.New(
		converter.WithParserOptions(cfg.ParserOptions()),
		converter.WithIndent(cfg.Indent),
		converter.WithLogger(logger),
	)

	result, err := conv.Convert(CLI.Input, CLI.Output)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(stdout, result.Message()); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
