package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/japaniel/wordbook/pkg/app"
	"github.com/japaniel/wordbook/pkg/config"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/wordbook"
)

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New("usage")

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// env is what a command runs against.
type env struct {
	ctx  context.Context
	cfg  *config.Config
	book *wordbook.Book
	out  io.Writer
}

type command struct {
	name  string
	args  string
	help  string
	local bool // runs without opening the database
	run   func(e *env, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{name: "add", args: "<word> <definition...>", help: "add or replace a word", run: cmdAdd},
		{name: "search", args: "<word>", help: "look a word up, explaining unknown words by their affixes", run: cmdSearch},
		{name: "prefix", args: "<prefix>", help: "list words starting with prefix", run: cmdPrefix},
		{name: "list", args: "[-recent n]", help: "list all words", run: cmdList},
		{name: "delete", args: "<word>", help: "delete a word", run: cmdDelete},
		{name: "import", args: "[-format txt|json|csv] <file>", help: "import words from a file", run: cmdImport},
		{name: "export", args: "[-format txt|json|csv] <file|->", help: "export words to a file", run: cmdExport},
		{name: "affix-add", args: "<affix> <category> <definition...>", help: "catalogue an affix (prefix, suffix, infix, other)", run: cmdAffixAdd},
		{name: "affix", args: "[-remove] <affix>", help: "show or remove an affix", run: cmdAffix},
		{name: "affixes", help: "list affixes by category", run: cmdAffixes},
		{name: "categorize", help: "group words under their affixes", run: cmdCategorize},
		{name: "mine", args: "[-min n]", help: "propose recurring prefixes and suffixes", run: cmdMine},
		{name: "suggest", args: "<word>", help: "decompose a word into known and candidate affixes", run: cmdSuggest},
		{name: "stats", args: "[-utc] [-from date] [-to date] [-trend days]", help: "show insertion statistics", run: cmdStats},
		{name: "harvest", args: "[-add] <url>", help: "collect unknown words from a Japanese article (-add needs harvest.allow_add)", run: cmdHarvest},
		{name: "reset", args: "-yes", help: "delete every word", run: cmdReset},
		{name: "version", help: "print the version", local: true, run: cmdVersion},
	}
}

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one CLI invocation and returns the process exit code:
// 0 on success, 1 on failure, 2 on bad usage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wordbook", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML config (default $WORDBOOK_CONFIG or ./wordbook.yaml)")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		printUsage(stderr)
		return 2
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		printUsage(stderr)
		return 2
	}

	e := &env{ctx: ctx, out: stdout}
	if !cmd.local {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		logger := app.NewLogger(cfg.Log)

		conn, err := db.Open(cfg.Storage.Path)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		defer conn.Close()

		book, err := wordbook.Open(ctx, conn, wordbook.Options{
			Bounds:   boundsFrom(cfg.Affix),
			KeepCase: cfg.Words.KeepCase,
			Logger:   logger,
		})
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		e.cfg, e.book = cfg, book
	}

	if err := cmd.run(e, rest); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			if !errors.Is(err, flag.ErrHelp) {
				fmt.Fprintf(stderr, "error: %v\n", err)
			}
			fmt.Fprintf(stderr, "usage: wordbook %s %s\n", cmd.name, cmd.args)
			return 2
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: wordbook [-config path] <command> [flags] [args]")
	fmt.Fprintln(w, "\ncommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-11s %-38s %s\n", c.name, c.args, c.help)
	}
}

// newFlags returns a flag set for a subcommand whose errors are reported
// by run.
func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageErr("%v", err)
	}
	return nil
}
