package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/drake/harmonia/clock"
	"github.com/drake/harmonia/config"
	"github.com/drake/harmonia/debug"
	"github.com/drake/harmonia/lua"
	"github.com/drake/harmonia/midi"
)

func main() {
	app := cli.App{
		Name:      "harmonia",
		Usage:     "A Lua-scripted real-time MIDI sequencer.",
		UsageText: "harmonia <command> [arguments...]",
		Commands: []cli.Command{
			{
				Name:      "play",
				Usage:     "run a Lua script and execute its bound blocks",
				ArgsUsage: "<script.lua>",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "config", Usage: "settings file", Value: config.File()},
					cli.StringFlag{Name: "port", Usage: "MIDI output port (substring match)"},
					cli.BoolFlag{Name: "debug", Usage: "debug logging"},
				},
				Action: play,
			},
			{
				Name:  "clock",
				Usage: "publish a master clock through shared memory",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "config", Usage: "settings file", Value: config.File()},
					cli.StringFlag{Name: "region", Usage: "shared memory region name"},
					cli.DurationFlag{Name: "interval", Usage: "publish interval"},
				},
				Action: runClock,
			},
			{
				Name:   "ports",
				Usage:  "list available MIDI output ports",
				Action: ports,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "harmonia:", err)
		os.Exit(1)
	}
}

// initLogger configures the shared slog logger.
func initLogger(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

func play(c *cli.Context) error {
	script := c.Args().First()
	if script == "" {
		return fmt.Errorf("usage: harmonia play <script.lua>")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if port := c.String("port"); port != "" {
		cfg.Port = port
	}
	initLogger(cfg.Debug || c.Bool("debug") || debug.Enabled())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := lua.NewEngine(&deviceServices{ctx: ctx, cfg: cfg})
	if err := engine.Init(); err != nil {
		return fmt.Errorf("init scripting: %w", err)
	}
	defer engine.Close()

	debug.NewMonitor(ctx, engine.Stats).Start()

	return engine.DoFile(script)
}

func runClock(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	region := cfg.Region
	if r := c.String("region"); r != "" {
		region = r
	}
	interval := time.Duration(cfg.PublishInterval)
	if d := c.Duration("interval"); d > 0 {
		interval = d
	}
	initLogger(cfg.Debug || debug.Enabled())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub, err := clock.NewPublisher(cfg.RegionDir, region)
	if err != nil {
		return err
	}
	defer pub.Close()

	slog.Info("publishing clock", "region", region, "interval", interval)
	if err := pub.Run(ctx, interval); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func ports(c *cli.Context) error {
	names, err := midi.Ports()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no MIDI output ports available")
		return nil
	}
	for i, name := range names {
		fmt.Printf("%d: %s\n", i, name)
	}
	return nil
}
