package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/utf8codec/codec"
)

func main() {
	var (
		mode        = flag.String("mode", "encode", "encode (text to UTF-8) or decode (UTF-8 to text)")
		inFile      = flag.String("in", "", "Read input from file (- for stdin)")
		hexIO       = flag.Bool("hex", false, "Hex input: UTF-16 units for encode, bytes for decode")
		strategy    = flag.String("strategy", "", "Force a strategy (native, pure)")
		strict      = flag.Bool("strict", false, "Fail on lone surrogates and invalid UTF-8")
		loneLow     = flag.String("lone-low", "", "Unpaired low surrogate policy (replace, encode)")
		configFile  = flag.String("config", "", "Path to TOML config file")
		verbose     = flag.Bool("v", false, "Log strategy selection to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = l.Sync() }()
		codec.SetLogger(l)
	}

	f, err := newFacade(*configFile, *strategy, *strict, *loneLow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *mode != "encode" && *mode != "decode" {
		fmt.Fprintln(os.Stderr, "Usage: utf8codec [-mode encode|decode] [-hex] [-in file] [text...]")
		fmt.Fprintln(os.Stderr, "       utf8codec -i  (interactive mode)")
		os.Exit(1)
	}

	input, err := readInput(*inFile, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if *mode == "encode" {
		err = runEncode(f, input, *hexIO, tty, os.Stdout)
	} else {
		err = runDecode(f, input, *hexIO, tty, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configFile if given. Both paths apply the environment
// override exactly once.
func loadConfig(configFile string) (codec.Config, error) {
	if configFile == "" {
		return codec.Config{}.WithEnv(), nil
	}
	return codec.LoadConfig(configFile)
}

func newFacade(configFile, strategy string, strict bool, loneLow string) (*codec.Facade, error) {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}

	// Flags win over the config file.
	if strategy != "" {
		cfg.Strategy = strategy
	}
	if strict {
		cfg.Strict = true
	}
	if loneLow != "" {
		cfg.LoneLow = loneLow
	}

	s, err := codec.Select(cfg)
	if err != nil {
		return nil, fmt.Errorf("select strategy: %w", err)
	}
	return codec.NewFacade(s), nil
}

func readInput(inFile string, args []string) ([]byte, error) {
	switch {
	case inFile == "-":
		return io.ReadAll(os.Stdin)
	case inFile != "":
		data, err := os.ReadFile(inFile)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	case len(args) > 0:
		return []byte(strings.Join(args, " ")), nil
	default:
		return io.ReadAll(os.Stdin)
	}
}

func runEncode(f *codec.Facade, input []byte, hexIn, tty bool, w io.Writer) error {
	var units []uint16
	if hexIn {
		var err error
		if units, err = parseUnits(string(input)); err != nil {
			return err
		}
	} else {
		units = unitsOf(input)
	}

	b, err := f.Encode(context.Background(), units)
	if err != nil {
		return err
	}

	if !tty && !hexIn {
		_, err = w.Write(b)
		return err
	}
	fmt.Fprintln(w, formatBytes(b))
	if tty {
		fmt.Fprintf(w, "%d units -> %d bytes (%s)\n", len(units), len(b), f.Strategy().Name())
	}
	return nil
}

func runDecode(f *codec.Facade, input []byte, hexIn, tty bool, w io.Writer) error {
	data := input
	if hexIn {
		var err error
		if data, err = parseBytes(string(input)); err != nil {
			return err
		}
	}

	units, err := f.Decode(context.Background(), data)
	if err != nil {
		return err
	}

	if hexIn {
		fmt.Fprintln(w, formatUnits(units))
	} else {
		_, err = io.WriteString(w, textOf(units))
		if err != nil {
			return err
		}
		if tty {
			fmt.Fprintln(w)
		}
	}
	if tty {
		fmt.Fprintf(w, "%d bytes -> %d units, %d U+FFFD (%s)\n", len(data), len(units), countReplacements(units), f.Strategy().Name())
	}
	return nil
}
