package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/nucleide/module"
	"github.com/wippyai/nucleide/section"
)

type config struct {
	file        string
	output      string
	verify      bool
	interactive bool
	color       bool
	opts        section.Options
	edits       edits
}

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to wasm module")
		output      = flag.String("o", "", "Write the (modified) module to this path")
		verify      = flag.Bool("verify", false, "Compile the module with wazero and show what it reads back")
		verbose     = flag.Bool("v", false, "Debug logging")
		strict      = flag.Bool("strict", false, "Reject duplicate keys in name maps")
		portals     = flag.String("set-portals", "", "Replace the daku portal list (Log,Fetch,...)")
		processedBy = flag.String("processed-by", "", "Add a processed-by producer (name@version)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect -wasm <file.wasm> [-verify] [-strict] [-v]")
		fmt.Fprintln(os.Stderr, "       inspect -wasm <file.wasm> -set-portals Log,Fetch -processed-by tool@1.0 -o out.wasm")
		fmt.Fprintln(os.Stderr, "       inspect -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		section.SetLogger(logger)
		module.SetLogger(logger)
	}

	cfg := config{
		file:        *wasmFile,
		output:      *output,
		verify:      *verify,
		interactive: *interactive,
		color:       term.IsTerminal(int(os.Stdout.Fd())),
		opts:        section.Options{RejectDuplicateKeys: *strict},
		edits:       edits{portals: *portals, processedBy: *processedBy},
	}

	if cfg.interactive {
		if !cfg.color {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	data, err := os.ReadFile(cfg.file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	m, err := module.Parse(data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if !cfg.edits.empty() {
		if cfg.output == "" {
			return fmt.Errorf("-o is required with -set-portals or -processed-by")
		}
		if err := cfg.edits.apply(m, cfg.opts); err != nil {
			return fmt.Errorf("edit: %w", err)
		}
	}
	if cfg.output != "" {
		data = m.Encode()
		if err := os.WriteFile(cfg.output, data, 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
	}

	r := &reporter{w: os.Stdout, st: newStyles(cfg.color), opts: cfg.opts}
	r.module(cfg.file, m)

	if cfg.verify {
		rep, err := module.Verify(ctx, data)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		fmt.Println()
		r.verified(rep)
	}
	return nil
}
