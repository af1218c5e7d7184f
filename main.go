package main

import (
	"dql/config"
	"dql/parser"
	"dql/render"
	"dql/repl"
	"dql/util"
	"dql/web"
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"os"
)

const VERSION = "v0.1.0"

var cli struct {
	Logging         string      `help:"Logging verbosity (info, debug or trace). Overrides the config file." short:"l"`
	Version         VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	Config          string      `help:"YAML config file." short:"c" type:"existingfile" placeholder:"<config-file>"`
	Format          string      `help:"Output format (tree, json or yaml). Overrides the config file." short:"f"`
	MaxDepth        int         `help:"Maximum nesting depth of expressions and statements. Overrides the config file." name:"max-depth"`
	CaseInsensitive bool        `help:"Accept keywords, type names and COUNT in any letter case." name:"case-insensitive"`
	Recover         bool        `help:"Continue with the next statement after a syntax error and report all errors."`
	Plain           bool        `help:"Disable colors in the output."`
	Parse           struct {
		Query string `help:"The query string." placeholder:"<query>" arg:"" optional:""`
		File  string `help:"Read the query from this file instead." type:"existingfile" placeholder:"<file>"`
	} `cmd:"" help:"Parses the given statements and prints their syntax tree."`
	Tokens struct {
		Query string `help:"The query string." placeholder:"<query>" arg:""`
	} `cmd:"" help:"Prints the tokens of the given input."`
	Highlight struct {
		Query string `help:"The query string." placeholder:"<query>" arg:""`
	} `cmd:"" help:"Prints the given input with syntax highlighting."`
	Repl struct {
	} `cmd:"" help:"Starts an interactive shell parsing the entered statements."`
	Serve struct {
		Port string `help:"The port to listen on. Overrides the config file." short:"p"`
	} `cmd:"" help:"Starts an HTTP server parsing the statements of POST requests."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("dql"),
		kong.Description("Lexer and parser for a SQL-like document query language."),
		kong.Vars{
			"version": VERSION,
		},
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		util.SetLogLevel("info")
		sigolo.Fatalf("%+v", err)
	}
	applyFlags(cfg)
	util.SetLogLevel(cfg.Logging)

	err = cfg.Validate()
	sigolo.FatalCheck(err)

	renderer := render.NewRenderer(cli.Plain)

	switch ctx.Command() {
	case "parse", "parse <query>":
		input, err := parseInput()
		sigolo.FatalCheck(err)
		os.Exit(parse(input, cfg, renderer))
	case "tokens <query>":
		tokens, err := parser.TokenizeWithOptions(cli.Tokens.Query, cfg.ParserOptions())
		if err != nil {
			fmt.Fprintln(os.Stderr, renderer.Error(cli.Tokens.Query, err))
			os.Exit(1)
		}
		output, err := render.Tokens(tokens, cfg.Output.Format)
		sigolo.FatalCheck(err)
		fmt.Print(output)
	case "highlight <query>":
		fmt.Println(renderer.Highlight(cli.Highlight.Query, cfg.ParserOptions()))
	case "repl":
		err = repl.Start(os.Stdout, cfg, VERSION)
		sigolo.FatalCheck(err)
	case "serve":
		web.StartServer(cfg)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

// applyFlags overrides the config values with the values given on the command line.
func applyFlags(cfg *config.Config) {
	if cli.Logging != "" {
		cfg.Logging = cli.Logging
	}
	if cli.Format != "" {
		cfg.Output.Format = cli.Format
	}
	if cli.MaxDepth > 0 {
		cfg.Parser.MaxDepth = cli.MaxDepth
	}
	if cli.CaseInsensitive {
		cfg.Parser.CaseInsensitiveKeywords = true
	}
	if cli.Recover {
		cfg.Parser.Recover = true
	}
	if cli.Serve.Port != "" {
		cfg.Server.Port = cli.Serve.Port
	}
}

func parseInput() (string, error) {
	if cli.Parse.File != "" {
		if cli.Parse.Query != "" {
			return "", errors.New("Either a query or a file can be given, not both")
		}
		data, err := os.ReadFile(cli.Parse.File)
		if err != nil {
			return "", errors.Wrapf(err, "Unable to read query file %s", cli.Parse.File)
		}
		return string(data), nil
	}
	if cli.Parse.Query == "" {
		return "", errors.New("No query given")
	}
	return cli.Parse.Query, nil
}

// parse prints the parsed statements and returns the exit code.
func parse(input string, cfg *config.Config, renderer *render.Renderer) int {
	statements, err := parser.ParseStringWithOptions(input, cfg.ParserOptions())
	if len(statements) > 0 {
		output, formatErr := render.Statements(statements, cfg.Output.Format)
		sigolo.FatalCheck(formatErr)
		fmt.Print(output)
	}

	if err != nil {
		sigolo.Debugf("%+v", err)
		fmt.Fprintln(os.Stderr, renderer.Error(input, err))
		return 1
	}
	return 0
}
