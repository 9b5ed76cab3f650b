// Command bedside-clock runs the bedside clock: time, temperature and
// pressure on a small display, three buttons, and up to eight alarms.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sweeney/bedside-clock/internal/config"
	"github.com/sweeney/bedside-clock/internal/logger"
)

var version = "dev"

// CLI is the command line.
type CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"path" default:"${config_path}"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)."`
	LogFile  string `help:"Also write JSON logs to this file, rotated." type:"path"`

	Run        RunCmd        `cmd:"" help:"Run the clock on the attached hardware." default:"1"`
	Sim        SimCmd        `cmd:"" help:"Run the clock in the terminal on simulated peripherals."`
	PrintState PrintStateCmd `cmd:"" help:"Read the clock and the sensor once, print and exit."`
}

// Context is handed to every command.
type Context struct {
	Config  config.Config
	LogOpts logger.Options
	Stdout  io.Writer
	Stderr  io.Writer
}

// newLogger builds the logger for a command. console may be nil.
func (c *Context) newLogger(console io.Writer) *logger.Logger {
	opts := c.LogOpts
	opts.Console = console
	return logger.New(opts)
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("bedside-clock"),
		kong.Description("Bedside clock and alarm."),
		kong.UsageOnError(),
		kong.Vars{"version": version, "config_path": config.DefaultPath},
	)

	ctx, err := newContext(cli, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := kctx.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newContext loads the configuration and applies the global flags over it.
func newContext(cli CLI, stdout, stderr io.Writer) (*Context, error) {
	cfg, err := config.Load(cli.Config, cli.Config != config.DefaultPath)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.Log.File = cli.LogFile
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:  cfg,
		LogOpts: logger.Options{Level: level, File: cfg.Log.File},
		Stdout:  stdout,
		Stderr:  stderr,
	}, nil
}
