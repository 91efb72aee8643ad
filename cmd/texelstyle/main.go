// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelstyle/main.go
// Summary: Command line front end for the markup parsers.
// Usage: texelstyle [-tags] [-check|-dump|-preview|-write-config] [-highlight file] [text...]
// Notes: Without text arguments the input is read from stdin. Lines share
// one stack set, so styles left open on a line carry to the next.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/framegrace/texelstyle/config"
	"github.com/framegrace/texelstyle/highlight"
	"github.com/framegrace/texelstyle/markup"
	"github.com/framegrace/texelstyle/styled"
)

var errDiagnostics = errors.New("markup has directives that print as text")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	tags      bool
	check     bool
	dump      bool
	preview   bool
	plain     bool
	debug     bool
	file      string
	lang      string
	style     string
	cfgPath   string
	saveCfg   bool
	logFile   string
	arguments []string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("texelstyle", flag.ContinueOnError)
	o := &options{}

	// Grammar and mode
	fs.BoolVar(&o.tags, "tags", false, "Use the [tag]...[/tag] grammar instead of [c:...] codes")
	fs.BoolVar(&o.check, "check", false, "Report directives that would print as text and exit")
	fs.BoolVar(&o.dump, "dump", false, "Print one line per styled cell")
	fs.BoolVar(&o.preview, "preview", false, "Show the result on a full screen terminal view")
	fs.BoolVar(&o.plain, "plain", false, "Print only the text, without colours")
	fs.BoolVar(&o.debug, "debug", false, "Log directives that fall back to text")

	// Highlighting
	fs.StringVar(&o.file, "highlight", "", "Highlight a source file instead of reading markup")
	fs.StringVar(&o.lang, "lang", "", "Lexer name for -highlight (default: detect)")
	fs.StringVar(&o.style, "style", "", "Chroma style for -highlight")

	// Environment
	fs.StringVar(&o.cfgPath, "config", "", "Config file (default: user config directory)")
	fs.StringVar(&o.logFile, "log", "", "Append logs to this file instead of stderr")
	fs.BoolVar(&o.saveCfg, "write-config", false, "Write the effective config, defaults filled in, and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.arguments = fs.Args()
	return o, nil
}

func run(args []string, stdin io.Reader, stdout *os.File) error {
	o, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := loadConfig(o.cfgPath)
	if err != nil {
		log.Printf("Config: %v (using defaults)", err)
	}
	if o.saveCfg {
		return writeConfig(stdout, o.cfgPath, cfg)
	}
	opts := markup.OptionsFromConfig(cfg)
	if o.debug {
		opts.Debug = true
	}
	if !o.tags && cfg.GetString("cli", "grammar", "code") == "tag" && o.file == "" {
		o.tags = true
	}
	if o.style == "" {
		o.style = cfg.GetString("cli", "highlight_style", "")
	}

	code := markup.NewCodeParser(opts)
	var parser interface {
		markup.Parser
		Check(text string) []markup.Diagnostic
	} = code
	if o.tags {
		parser = markup.NewTagParser(opts)
	}

	input, err := readInput(o, stdin)
	if err != nil {
		return err
	}
	if o.file != "" {
		input, err = highlight.Markup(input, highlight.Options{Language: o.lang, Filename: o.file, Style: o.style})
		if err != nil {
			return err
		}
		parser = code
	}

	if o.check {
		diags := parser.Check(input)
		for _, d := range diags {
			fmt.Fprintln(stdout, d.String())
		}
		if len(diags) > 0 {
			return errDiagnostics
		}
		return nil
	}

	lines := parseLines(parser, input)

	switch {
	case o.preview:
		fg, bg := styled.White, styled.Transparent
		if o.file != "" {
			fg, bg = highlight.BaseColors(o.style)
		}
		return preview(lines, fg, bg)
	case o.dump:
		return dump(stdout, lines)
	case o.plain || !term.IsTerminal(int(stdout.Fd())):
		for _, line := range lines {
			fmt.Fprintln(stdout, line.Text())
		}
		return nil
	}
	return writeANSI(stdout, lines)
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.System(), config.Err()
}

// writeConfig saves cfg to path, or to the user config when path is empty,
// and prints where it went.
func writeConfig(w io.Writer, path string, cfg config.Config) error {
	if path != "" {
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	} else {
		config.SetSystem(cfg)
		if err := config.SaveSystem(); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		var err error
		if path, err = config.Path(); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "Config written to %s\n", path)
	return nil
}

func readInput(o *options, stdin io.Reader) (string, error) {
	if o.file != "" {
		data, err := os.ReadFile(o.file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", o.file, err)
		}
		return string(data), nil
	}
	if len(o.arguments) > 0 {
		return strings.Join(o.arguments, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// parseLines parses each line with one shared stack set.
func parseLines(p markup.Parser, input string) []*styled.String {
	input = strings.TrimSuffix(input, "\n")
	stacks := markup.NewStacks()
	raw := strings.Split(input, "\n")
	out := make([]*styled.String, 0, len(raw))
	for _, line := range raw {
		out = append(out, p.Parse(strings.TrimSuffix(line, "\r"), -1, nil, stacks))
	}
	return out
}
