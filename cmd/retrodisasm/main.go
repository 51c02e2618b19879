package main

import (
	"fmt"
	"os"

	retrodisasm "retrodisasm"

	cli "github.com/urfave/cli/v2"
)

func run(c *cli.Context) error {
	if c.Bool("generate-man") {
		man, err := c.App.ToMan()
		if err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Fprintln(os.Stdout, man)
		return nil
	}

	args := c.Args()
	if args.Len() < 2 {
		return cli.Exit("usage: retrodisasm <description-file> <binary-file>", 1)
	}
	descPath := args.Get(0)
	binPath := args.Get(1)

	cfg := retrodisasm.DefaultConfig()
	if configPath := c.String("config"); configPath != "" {
		loaded, err := retrodisasm.LoadConfig(configPath)
		if err != nil {
			return cli.Exit(err, 1)
		}
		cfg = loaded
	}
	if c.Bool("reverse") {
		cfg.Disassembly.ForceReverse = true
	}
	if c.IsSet("loadaddr") {
		cfg.Disassembly.LoadAddr = c.Uint64("loadaddr")
	}

	is, err := retrodisasm.ParseFile(descPath, cfg.Disassembly.ForceReverse)
	if err != nil {
		return cli.Exit(fmt.Errorf("compiling description: %w", err), 1)
	}

	wr, err := retrodisasm.NewWordReader(binPath, is.WordsizeBytes, is.EndianLittle)
	if err != nil {
		return cli.Exit(fmt.Errorf("opening binary: %w", err), 1)
	}
	defer wr.Close()

	// Every error from either pass is fatal here: an unknown instruction
	// or I/O failure during label discovery is just as fatal as one hit
	// during the emit pass below.
	labels, err := retrodisasm.CollectUpwardBranches(wr, is)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := retrodisasm.Disassemble(is, wr, labels, os.Stdout, os.Stderr, cfg); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func main() {
	app := &cli.App{
		Name:                 "retrodisasm",
		Usage:                "disassemble a binary against a retargetable instruction-set description",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reverse",
				Usage: "bit-reverse every mask within as many bits as the description's word size in bytes before compiling it",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file overriding the defaults",
			},
			&cli.BoolFlag{
				Name:  "generate-man",
				Usage: "print a man page for this command and exit",
			},
			&cli.Uint64Flag{
				Name:  "loadaddr",
				Usage: "base address to add to every addr-kind operand, for a binary not loaded at offset 0",
			},
		},
		ArgsUsage: "<description-file> <binary-file>",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
