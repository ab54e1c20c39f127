package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "archive:9090", "-u", "maria", "-d", "/tmp/c.db", "-o", "out",
				"-f", "invoice.pdf", "-s", "3", "-t", "10", "-strict", "-l", "debug"},
			expected: &Config{
				ServerEndpointAddr: "archive:9090",
				ArchiveUser:        "maria",
				DatabasePath:       "/tmp/c.db",
				OutputDir:          "out",
				ExportFilename:     "invoice.pdf",
				RasterScale:        3,
				DefaultTaxRate:     10,
				StrictNumbers:      true,
				LogLevel:           "debug",
			},
		},
		{
			name:     "unknown flags ignored",
			args:     []string{"-x", "1", "-o", "exports"},
			expected: &Config{OutputDir: "exports"},
		},
		{
			name:        "bad scale",
			args:        []string{"-s", "big"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
