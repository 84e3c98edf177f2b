// picotool is a CLI utility for inspecting and editing picoCAD projects.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/picocad-tools/internal/config"
	"github.com/Faultbox/picocad-tools/internal/logger"
	"github.com/Faultbox/picocad-tools/internal/project"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := project.NewStoreFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("project directory", zap.String("dir", store.Dir()))

	app := &app{cfg: cfg, store: store}
	command, rest := args[0], args[1:]

	switch command {
	case "list", "ls":
		err = app.cmdList(rest)
	case "info":
		err = app.cmdInfo(rest)
	case "validate", "check":
		err = app.cmdValidate(rest)
	case "fmt":
		err = app.cmdFmt(rest)
	case "set-bg":
		err = app.cmdSetBackground(rest)
	case "watch":
		err = app.cmdWatch(rest)
	case "config":
		err = app.cmdConfig(rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`picotool - picoCAD project utility

Usage:
  picotool [-config file] [-dir dir] [-debug] [-validate] [-log file] <command> [options]

Commands:
  list                           List projects in the project directory
  info <project>                 Show header, mesh and palette statistics
  validate <project>             Check a project for structural problems
  fmt [-o file] [-w] <project>   Re-encode a project in canonical layout
  set-bg <project> <color>       Change the background color and save
  watch <project>                Print a summary each time picoCAD saves
  config [save]                  Print (or save) the effective configuration

A project is a name in the project directory or a path to a file.

Examples:
  picotool list
  picotool info ship
  picotool set-bg ship lavender
  picotool fmt -o clean.txt ./exports/ship.txt`)
}
