package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/autobody/internal/export"
	"github.com/dmitrijs2005/autobody/internal/flagx"
	"github.com/dmitrijs2005/autobody/internal/timex"
)

// JsonConfig is the on-disk shape of the client config file. Zero values
// leave the corresponding default untouched.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	ArchiveUser        string         `json:"archive_user"`
	DatabasePath       string         `json:"database_path"`
	OutputDir          string         `json:"output_dir"`
	ExportFilename     string         `json:"export_filename"`
	RasterScale        float64        `json:"raster_scale"`
	DefaultTaxRate     *float64       `json:"default_tax_rate"`
	RenderTimeout      timex.Duration `json:"render_timeout"`
	PageSize           string         `json:"page_size"`
	StrictNumbers      bool           `json:"strict_numbers"`
	LogLevel           string         `json:"log_level"`
	Issuer             *export.Issuer `json:"issuer"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// Read and decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.ArchiveUser, jc.ArchiveUser)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.OutputDir, jc.OutputDir)
	setString(&cfg.ExportFilename, jc.ExportFilename)
	setString(&cfg.PageSize, jc.PageSize)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RasterScale > 0 {
		cfg.RasterScale = jc.RasterScale
	}
	if jc.DefaultTaxRate != nil {
		cfg.DefaultTaxRate = *jc.DefaultTaxRate
	}
	if jc.RenderTimeout.Duration > 0 {
		cfg.RenderTimeout = jc.RenderTimeout.Duration
	}
	if jc.StrictNumbers {
		cfg.StrictNumbers = true
	}
	if jc.Issuer != nil {
		cfg.Issuer = *jc.Issuer
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
