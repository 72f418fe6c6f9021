// Package converter turns one YAML file into one JSON file.
//
// The input is decoded and encoded completely before the output file is
// opened, so a malformed input never creates or truncates the output.
package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	apperrors "github.com/mcncl/yaml2json/internal/errors"
	"github.com/mcncl/yaml2json/internal/formatter"
	"github.com/mcncl/yaml2json/internal/parser"
)

// Result describes a finished conversion.
type Result struct {
	Input  string
	Output string
	Bytes  int
}

// Message is the status line printed after a successful conversion.
func (r Result) Message() string {
	return fmt.Sprintf("Successfully converted %s to %s", r.Input, r.Output)
}

// Converter reads YAML files and writes their JSON rendering.
type Converter struct {
	opts      parser.Options
	formatter *formatter.Formatter
	logger    *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithParserOptions sets how YAML scalars are resolved.
func WithParserOptions(opts parser.Options) Option {
	return func(c *Converter) { c.opts = opts }
}

// WithIndent sets the number of spaces per JSON nesting level.
func WithIndent(indent int) Option {
	return func(c *Converter) { c.formatter = formatter.NewFormatter(indent) }
}

// WithLogger sets the logger used for debug and warning output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// New creates a Converter with 4-space indentation and YAML 1.1 scalars
// unless overridden by opts.
func New(opts ...Option) *Converter {
	c := &Converter{
		opts:      parser.DefaultOptions(),
		formatter: formatter.NewFormatter(formatter.DefaultIndent),
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// DefaultOutputPath replaces the extension of input with .json.
// Leading dots of a file name are not an extension: ".hidden" and
// "..yaml" get .json appended.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(strings.TrimLeft(filepath.Base(input), "."))
	return strings.TrimSuffix(input, ext) + ".json"
}

// Convert converts inputPath to JSON and writes it to outputPath, or to
// DefaultOutputPath(inputPath) when outputPath is empty. An existing
// output file is replaced.
func (c *Converter) Convert(inputPath, outputPath string) (Result, error) {
	if strings.TrimSpace(inputPath) == "" {
		return Result{}, apperrors.NewInputError("input path is empty", apperrors.ErrInvalidFilePath)
	}
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}

	input, err := filepath.Abs(inputPath)
	if err != nil {
		return Result{}, apperrors.NewInputError(
			fmt.Sprintf("failed to resolve '%s'", inputPath),
			errors.Wrap(err, "abs"),
		)
	}
	output, err := filepath.Abs(outputPath)
	if err != nil {
		return Result{}, apperrors.NewOutputError(
			fmt.Sprintf("failed to resolve '%s'", outputPath),
			errors.Wrap(err, "abs"),
		)
	}
	if input == output {
		c.logger.Warn("Output path is the input path, the input will be replaced", zap.String("path", input))
	}
	c.logger.Debug("Resolved paths",
		zap.String("input", input),
		zap.String("output", output),
		zap.String("scalars", string(c.opts.Scalars)),
	)

	doc, err := parser.ParseFile(input, c.opts)
	if err != nil {
		return Result{}, err
	}

	data, err := c.formatter.Format(doc.Root)
	if err != nil {
		return Result{}, err
	}

	if err := writeFile(output, data); err != nil {
		return Result{}, err
	}
	c.logger.Debug("Wrote output", zap.String("output", output), zap.Int("bytes", len(data)))

	return Result{Input: input, Output: output, Bytes: len(data)}, nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.NewOutputError(
				fmt.Sprintf("directory '%s' does not exist", dir),
				apperrors.ErrOutputDir,
			)
		}
		return apperrors.NewOutputError(fmt.Sprintf("failed to access '%s'", dir), err)
	}
	if !info.IsDir() {
		return apperrors.NewOutputError(
			fmt.Sprintf("'%s' is not a directory", dir),
			apperrors.ErrOutputDir,
		)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewOutputError(
			fmt.Sprintf("failed to write to file '%s'", path),
			errors.Wrap(err, "write"),
		)
	}
	return nil
}
