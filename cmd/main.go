package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/koskimas/lexgen/internal/cmd"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func settingsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path of the config file (default: lexgen.yaml in the working directory, if present)",
		},
		&cli.StringFlag{
			Name:  "schemas",
			Usage: "directory to search for lexicon .json files, overrides the config file",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "directory to write generated code to, overrides the config file",
		},
		&cli.StringFlag{
			Name:  "package",
			Usage: "name of the generated package (default: base name of the output directory)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log every loaded lexicon file",
		},
	}
}

// run executes the CLI. `-v` is left to the version flag cli adds.
func run(args []string, stdout io.Writer, stderr io.Writer) error {
	app := cli.App{
		Name:      "lexgen",
		Usage:     "generate Go types from Lexicon schema files",
		Version:   versioninfo.Short(),
		Flags:     settingsFlags(),
		Action:    runGenerate,
		Writer:    stdout,
		ErrWriter: stderr,
	}
	app.Commands = []*cli.Command{
		{
			Name:   "generate",
			Usage:  "generate Go types for every lexicon file",
			Flags:  settingsFlags(),
			Action: runGenerate,
		},
		{
			Name:   "inspect",
			Usage:  "print the loaded lexicons as a tree without generating code",
			Flags:  settingsFlags(),
			Action: runInspect,
		},
	}
	return app.Run(args)
}

func runGenerate(cctx *cli.Context) error {
	s, err := settings(cctx)
	if err != nil {
		return err
	}

	return cmd.Run(s)
}

func runInspect(cctx *cli.Context) error {
	s, err := settings(cctx)
	if err != nil {
		return err
	}

	return cmd.Inspect(s, cctx.App.Writer)
}

func settings(cctx *cli.Context) (cmd.Settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return cmd.Settings{}, fmt.Errorf("failed to determine working directory: %w", err)
	}

	level := slog.LevelInfo
	if cctx.Bool("verbose") {
		level = slog.LevelDebug
	}

	return cmd.Settings{
		WorkingDir: wd,
		ConfigFile: cctx.String("config"),
		SchemaDir:  cctx.String("schemas"),
		OutputDir:  cctx.String("out"),
		Package:    cctx.String("package"),
		Logger:     slog.New(slog.NewTextHandler(cctx.App.ErrWriter, &slog.HandlerOptions{Level: level})),
	}, nil
}
