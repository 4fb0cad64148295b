// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// conval is a command-line tool for working with configuration files.
//
// It reads one or more YAML/JSON configs, applies import and template
// expansion plus any --set overrides, and dumps the composed result as
// JSON (default) or YAML. --query extracts a dotted path, --names
// lists an object's member names, and --deps lists the files a config
// pulls in.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/conval/lib/conf"
	"github.com/bureau-foundation/conval/lib/json"
	"github.com/bureau-foundation/conval/lib/value"
	"github.com/bureau-foundation/conval/lib/version"
	"github.com/bureau-foundation/conval/lib/yaml"
)

// Exit codes follow the sysexits convention.
const (
	exitOK          = 0
	exitError       = 1
	exitArgError    = 64 // EX_USAGE
	exitIOError     = 74 // EX_IOERR
	exitConfigError = 78 // EX_CONFIG
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		query      string
		settings   []string
		names      bool
		yamlOut    bool
		strict     bool
		deps       bool
		variant    string
		indent     int
		margin     int
		precision  int
		quoteKeys  bool
		trimZeroes bool
		verbose    bool
		debug      bool
		quiet      bool
	)

	flagSet := pflag.NewFlagSet("conval", pflag.ContinueOnError)
	flagSet.StringVar(&query, "query", "", "show the value at the given path, e.g. people.bob.name")
	flagSet.StringArrayVar(&settings, "set", nil, "additional path[=value] settings to apply after reading")
	flagSet.BoolVar(&names, "names", false, "for an object, show only member names")
	flagSet.StringVar(&variant, "variant", "", "variant suffix to try for every import")
	flagSet.IntVar(&indent, "indent", json.DefaultFormat.Indent, "output indent")
	flagSet.IntVar(&margin, "margin", json.DefaultFormat.ArrayMargin, "right margin for array wrapping, 0 to wrap every element")
	flagSet.IntVar(&precision, "precision", json.DefaultFormat.MaxPrecision, "max precision for number output")
	flagSet.BoolVar(&quoteKeys, "quote_keys", json.DefaultFormat.QuoteKeys, "quote all object keys")
	flagSet.BoolVar(&trimZeroes, "trim_zeroes", json.DefaultFormat.TrimZeroes, "trim trailing zeroes from real numbers")
	flagSet.BoolVar(&strict, "strict", false, "read and write strict JSON")
	flagSet.BoolVar(&deps, "deps", false, "list input file dependencies")
	flagSet.BoolVar(&yamlOut, "yaml", false, "output result as YAML rather than JSON")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flagSet.BoolVarP(&debug, "debug", "d", false, "debug output")
	flagSet.BoolVarP(&quiet, "quiet", "q", false, "quiet: only show warnings and errors")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("conval")
		return exitOK
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitArgError
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return exitOK
	}

	inputPaths := flagSet.Args()
	if len(inputPaths) == 0 {
		printHelp(flagSet)
		return exitArgError
	}

	level := slog.LevelInfo
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	case quiet:
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	format := json.DefaultFormat
	if strict {
		format = json.StrictFormat
	}
	if flagSet.Changed("indent") {
		format.Indent = indent
	}
	if flagSet.Changed("margin") {
		format.ArrayMargin = margin
	}
	if flagSet.Changed("precision") {
		format.MaxPrecision = precision
	}
	if flagSet.Changed("quote_keys") {
		format.QuoteKeys = quoteKeys
	}
	if flagSet.Changed("trim_zeroes") {
		format.TrimZeroes = trimZeroes
	}

	result := exitOK
	info := conf.Info{Variant: variant}

	for _, inputPath := range inputPaths {
		if len(inputPaths) > 1 {
			fmt.Printf("%s:\n", inputPath)
		}
		logger.Debug("loading config", "path", inputPath)

		config, err := conf.LoadConfig(inputPath, &info)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			result = exitArgError
			continue
		}

		if deps {
			fmt.Printf("%s:\n", info.Main)
			for _, importPath := range info.Imports {
				fmt.Printf("     %s\n", importPath)
			}
			continue
		}

		if err := conf.ApplySettings(settings, &config); err != nil {
			fmt.Fprintf(os.Stderr, "parse error in value: %v\n", err)
			result = exitConfigError
		}

		if !dumpConfig(config, query, names, yamlOut, format) {
			result = exitIOError
		}
	}

	return result
}

// dumpConfig writes the (possibly queried) config to stdout.
func dumpConfig(config value.Value, query string, namesOnly, yamlOut bool, format json.Format) bool {
	v := config
	if query != "" {
		v = value.MemberPath(config, query)
		if v.IsNull() {
			fmt.Fprintf(os.Stderr, "%s not found\n", query)
			return false
		}
	}

	if namesOnly && v.IsObject() {
		for i := 0; i < v.NumMembers(); i++ {
			fmt.Println(v.MemberName(i))
		}
		return true
	}

	if yamlOut {
		fmt.Print(yaml.AsYaml(v, format.Indent))
	} else {
		fmt.Println(json.AsJson(v, format.Indent, format))
	}
	return true
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Println("conval - tool for working with config files")
	fmt.Println()
	fmt.Println("usage: conval [flags] <path> ...")
	fmt.Println()
	fmt.Println("Reads the given config file(s), expands imports and templates,")
	fmt.Println("and dumps the composed data.")
	fmt.Println()
	fmt.Println(flagSet.FlagUsages())
}
