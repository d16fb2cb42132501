package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"

	"github.com/redchew/horse64/config"
	"github.com/redchew/horse64/program"
	"github.com/redchew/horse64/version"
	"github.com/redchew/horse64/vm"
)

func main() {
	app := &cli.Command{
		Name:  "horse64",
		Usage: "Horse64 bytecode VM core -- a pre-built-program runner and symbol REPL",
		Commands: []*cli.Command{
			runCommand,
			replCommand,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "version",
				Local:   true,
				Aliases: []string{"v"},
				Usage:   "Show version",
				Action: func(ctx context.Context, cmd *cli.Command, b bool) error {
					fmt.Println(version.Version())
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "horse64: %v\n", err)
		os.Exit(1)
	}
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "execute a pre-built program fixture",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "fixture",
			Value: "hello",
			Usage: fmt.Sprintf("which fixture to build and execute: %s", fixtureNames()),
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a YAML tuning-constants file (see config.Load); omit for hard-coded defaults",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return runFixture(cmd.String("fixture"), cmd.String("config"), os.Stderr)
	},
}

func runFixture(name, configPath string, stderr io.Writer) error {
	f, ok := findFixture(name)
	if !ok {
		return fmt.Errorf("unknown fixture %q; available: %s", name, fixtureNames())
	}

	env := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		env = loaded
	}

	prog := program.New()
	if err := f.build(prog); err != nil {
		return fmt.Errorf("building fixture %q: %w", name, err)
	}

	code := vm.Execute(env, prog, nil, stderr)
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

var replCommand = &cli.Command{
	Name:  "repl",
	Usage: "read lines and echo back matching debug-symbol names (not a Horse64 evaluator)",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "fixture",
			Value: "hello",
			Usage: "which fixture's program table to look symbols up against",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		f, ok := findFixture(cmd.String("fixture"))
		if !ok {
			return fmt.Errorf("unknown fixture %q; available: %s", cmd.String("fixture"), fixtureNames())
		}
		prog := program.New()
		if err := f.build(prog); err != nil {
			return err
		}
		return runSymbolREPL(prog)
	},
}

// runSymbolREPL is deliberately not a Horse64 reader/evaluator -- there is
// no source-level parser in this core to drive. It exists to give
// chzyer/readline's line-editing a concrete, if thin, wiring point: each
// line typed is looked up against the program table's debug symbols
// (func/class/global-var names) and the matching kind and id are echoed
// back, or a "no such symbol" message otherwise.
func runSymbolREPL(prog *program.Program) error {
	rl, err := readline.New("horse64> ")
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if name == "exit" || name == "quit" {
			return nil
		}

		fmt.Println(lookupSymbol(prog, name))
	}
}

func lookupSymbol(prog *program.Program, name string) string {
	for id, n := range prog.Debug.FuncNames {
		if n == name {
			return fmt.Sprintf("func %s -> id %d", name, id)
		}
	}
	for id, n := range prog.Debug.ClassNames {
		if n == name {
			return fmt.Sprintf("class %s -> id %d", name, id)
		}
	}
	for id, n := range prog.Debug.VarNames {
		if n == name {
			return fmt.Sprintf("global var %s -> id %d", name, id)
		}
	}
	return fmt.Sprintf("no such symbol: %s", name)
}
