package config

import (
	"time"

	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/export"
)

// Config holds runtime settings for the autobody admin client.
type Config struct {
	ServerEndpointAddr string
	ArchiveUser        string
	DatabasePath       string
	OutputDir          string
	ExportFilename     string
	RasterScale        float64
	DefaultTaxRate     float64
	RenderTimeout      time.Duration
	PageSize           string
	StrictNumbers      bool
	LogLevel           string
	Issuer             export.Issuer
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ArchiveUser = "admin"
	c.DatabasePath = "autobody.db"
	c.OutputDir = "facturas"
	c.ExportFilename = common.ExportFilename
	c.RasterScale = export.DefaultScale
	c.DefaultTaxRate = 21
	c.RenderTimeout = 10 * time.Second
	c.PageSize = export.A4.Name
	c.LogLevel = "info"
}

// ExportConfig maps the client settings onto the export pipeline.
func (c *Config) ExportConfig() export.Config {
	return export.Config{
		Filename:      c.ExportFilename,
		Scale:         c.RasterScale,
		RenderTimeout: c.RenderTimeout,
		Page:          export.PageSizeByName(c.PageSize),
		Issuer:        c.Issuer,
		StrictNumbers: c.StrictNumbers,
	}
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// the remaining flags. Later sources win.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
