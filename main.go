package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/json2csv/internal/config"
	"github.com/mcncl/json2csv/internal/converter"
	"github.com/mcncl/json2csv/internal/errors"
	"github.com/mcncl/json2csv/internal/formatter"
	"github.com/mcncl/json2csv/internal/models"
	"github.com/mcncl/json2csv/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string   `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string   `help:"Path to output CSV file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string   `help:"Path to a YAML config file. Defaults to .json2csv.yml in the current or a parent directory." short:"c" type:"path"`
	Needle      []string `help:"Key to extract, as NAME to infer columns or NAME=COL1,COL2 to select columns. Repeatable; replaces the config file's needles." short:"n" sep:"none"`
	HeaderCase  string   `help:"Rewrite header names (none, snake, screaming-snake, kebab, camel, lower-camel)." enum:"none,snake,screaming-snake,kebab,camel,lower-camel" default:"none"`
	Separate    bool     `help:"Insert a blank line between tables." short:"s"`
	Debug       bool     `help:"Enable debug logging." short:"d"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
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
	parser := kong.Must(&CLI,
		kong.Name("json2csv"),
		kong.Description("Extract keys from nested JSON into CSV tables"),
		kong.UsageOnError(),
	)

	// No arguments at all means interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// kong.UsageOnError() has already printed the usage
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("json2csv version %s\n", Version)
		return
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Needle, headerCaseFlag(kctx), CLI.Separate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to load configuration", err)))
		fmt.Fprintf(os.Stderr, "\nFor help, run: json2csv --help\n")
		os.Exit(1)
	}

	err = run(&Context{Debug: CLI.Debug || cfg.Dev.Debug, Config: cfg})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: json2csv --help\n")
		os.Exit(1)
	}
}

// headerCaseFlag returns --header-case when it was given on the command line
// and "" when the value is only kong's default, so that the config file keeps
// its own setting.
func headerCaseFlag(kctx *kong.Context) string {
	for _, p := range kctx.Path {
		if p.Flag != nil && p.Flag.Name == "header-case" {
			return CLI.HeaderCase
		}
	}
	return ""
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	// 1. Parse JSON input
	doc, err := parseInput()
	if err != nil {
		return err
	}

	// 2. Flatten the needles into CSV tables
	opts := []converter.Option{
		converter.WithFormatter(formatter.NewFormatter(cfg.FormatterOptions()...)),
	}
	if ctx.Debug {
		opts = append(opts, converter.WithDebug(os.Stderr))
		fmt.Fprintf(os.Stderr, "[debug] %d needle(s) configured\n", cfg.Needles.Len())
	}
	csv := converter.New(opts...).Convert(&cfg.Needles, doc)

	// 3. Output the result
	return writeOutput(csv)
}

// parseInput reads JSON from file or stdin
func parseInput() (models.Value, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Piped input
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseBytes(jsonData)
}

// writeOutput writes the CSV text to file or stdout unchanged
func writeOutput(csv string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(csv), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "CSV written to %s\n", CLI.Output)
		return nil
	}

	if _, err := io.WriteString(os.Stdout, csv); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput() (models.Value, error) {
	fmt.Fprintln(os.Stderr, "json2csv Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return nil, errors.NewInputError("error reading input", err)
	}

	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseBytes(data)
}
