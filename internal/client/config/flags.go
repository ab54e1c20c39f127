package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/autobody/internal/flagx"
)

var knownFlags = []string{"-a", "-u", "-d", "-o", "-f", "-s", "-t", "-strict", "-l"}

// parseFlags overlays cfg with the flags it knows about. Everything else in
// args is ignored. A malformed value panics.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "archive server address and port")
	fs.StringVar(&cfg.ArchiveUser, "u", cfg.ArchiveUser, "archive user name")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "directory for exported invoices")
	fs.StringVar(&cfg.ExportFilename, "f", cfg.ExportFilename, "file name of exported invoices")
	fs.Float64Var(&cfg.RasterScale, "s", cfg.RasterScale, "raster scale")
	fs.Float64Var(&cfg.DefaultTaxRate, "t", cfg.DefaultTaxRate, "default tax rate, percent")
	fs.BoolVar(&cfg.StrictNumbers, "strict", cfg.StrictNumbers, "reject non-numeric totals")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
