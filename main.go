package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	json "github.com/goccy/go-json"

	"github.com/mcncl/jsonlint/internal/config"
	"github.com/mcncl/jsonlint/internal/diagnostic"
	"github.com/mcncl/jsonlint/internal/errors"
	"github.com/mcncl/jsonlint/internal/parser"
	"github.com/mcncl/jsonlint/internal/render"
)

// CLI defines the command-line interface
var CLI struct {
	File           string `help:"Path to input JSON file." arg:"" optional:"" type:"path"`
	Input          string `help:"Path to input JSON file (alternative to the positional argument)." short:"i" type:"path"`
	Output         string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Compact        bool   `help:"Print the parsed value on a single line." short:"c"`
	Quiet          bool   `help:"Validate only; print nothing on success." short:"q"`
	NoColor        bool   `help:"Disable colored diagnostics."`
	MaxDiagnostics int    `help:"Maximum number of diagnostics to render (0 = unlimited)." default:"-1"`
	Config         string `help:"Path to config file. Discovered automatically when not set." type:"path"`
	Debug          bool   `help:"Enable debug logging." short:"d"`
	Version        bool   `help:"Show version information." short:"v"`
	Interactive    bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	k := kong.Must(&CLI,
		kong.Name("jsonlint"),
		kong.Description("Parse JSON and report syntax errors with source locations"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			CLI.Interactive = true
		}
	}

	if _, err := k.Parse(os.Args[1:]); err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsonlint version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := run(&Context{Debug: CLI.Debug, Config: cfg}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: an explicit --config
// path, a discovered config file, or defaults, with CLI flags layered on
// top.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load config from '%s'", path), err)
		}
		cfg = loaded
	}

	// CLI flags win over the config file
	if CLI.NoColor {
		cfg.Render.Color = "never"
	}
	if CLI.MaxDiagnostics >= 0 {
		cfg.Render.MaxDiagnostics = CLI.MaxDiagnostics
	}
	if CLI.Compact {
		cfg.Output.Compact = true
	}
	if CLI.Debug {
		cfg.Dev.Debug = true
	}
	return cfg, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Resolve and read the input
	name, src, err := readInput()
	if err != nil {
		return err
	}

	// 2. Parse
	value, parseErrs := parser.ParseWithOptions(src, ctx.Config.ParserOptions())
	if parseErrs != nil {
		if ctx.Debug {
			fmt.Fprintf(os.Stderr, "debug: %s\n", parser.Summary(parseErrs))
		}

		// 3a. Translate the error trees and render them against the source
		diags := diagnostic.Translate(src, parseErrs)
		r := render.New(name, ctx.Config.ColorMode())
		r.Max = ctx.Config.Render.MaxDiagnostics
		r.Render(os.Stderr, src, diags)
		return errors.NewParsingError(
			fmt.Sprintf("found %d problem(s) in %s", len(diags), name),
			errors.ErrInvalidJSON,
		)
	}

	if CLI.Quiet {
		return nil
	}

	// 3b. Re-encode the value tree for output
	var out []byte
	if ctx.Config.Output.Compact {
		out, err = json.Marshal(value)
	} else {
		out, err = json.MarshalIndent(value, "", ctx.Config.Output.Indent)
	}
	if err != nil {
		return errors.NewOutputError("failed to encode parsed value", err)
	}

	return writeOutput(string(out))
}

// readInput resolves the input source and returns its display name and text
func readInput() (name, src string, err error) {
	path := CLI.File
	if path == "" {
		path = CLI.Input
	}
	if path != "" {
		src, err := readFile(path)
		return path, src, err
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", "", errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			src, err := readInteractiveInput()
			return "<stdin>", src, err
		}
		return "", "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return "<stdin>", string(data), nil
}

// readFile reads the whole input file, rejecting missing and empty files
func readFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
		}
		return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError(fmt.Sprintf("input file '%s' is empty", path), errors.ErrFileEmpty)
	}
	return string(data), nil
}

// writeOutput writes the re-encoded value to file or stdout
func writeOutput(out string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(out+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		return nil
	}

	_, err := fmt.Println(out)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "jsonlint Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			builder.WriteString(line)
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
		builder.WriteString(line)
	}

	src := builder.String()
	if len(src) == 0 {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	return src, nil
}
