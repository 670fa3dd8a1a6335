package main

import (
	"log/slog"

	"px2svg/convert"
	"px2svg/parallel"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Workers int  `help:"Number of images converted in parallel. 0 uses every CPU." default:"0"`
	Verbose bool `short:"v" help:"Enable debug logging" default:"false"`

	Convert convert.CLICmd `cmd:"" default:"withargs" help:"Convert flat-colour raster images to SVG rectangles"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("px2svg"),
		kong.Description("Vectorize pixel art by merging runs of identical pixels into rectangles."),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	pool := parallel.Start(cli.Workers)
	slog.Debug("running", "command", kctx.Command(), "workers", pool.Workers())

	err := kctx.Run(pool)
	kctx.FatalIfErrorf(err)
}
