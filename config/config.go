// Package config holds the settings shared by the command line tools.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/adrg/xdg"

	"github.com/miku/isokit"
	"github.com/miku/isokit/feeds"
)

// Config for the conversion tools. Defaults come from Default, environment
// overrides from LoadEnv, flags are applied by each command.
type Config struct {
	// DataDir is the generic data dir for all isokit tools.
	DataDir string
	// TemplateDir may contain templates overriding the bundled ones.
	TemplateDir string
	// HarvestDir receives DataCite day slices.
	HarvestDir string
	// IDLogPath records identifiers of records pushed to the catalog.
	IDLogPath string
	// CatalogURL is the base URL of a GeoNetwork instance.
	CatalogURL      string
	CatalogUser     string
	CatalogPassword string
	// DataCiteURL and ZenodoURL point to the upstream APIs.
	DataCiteURL string
	ZenodoURL   string
	// MaxRetries is a generic retry count.
	MaxRetries int
	// Timeout is a generic operation timeout.
	Timeout time.Duration
	// Workers for batch conversion.
	Workers int
}

// Default returns a configuration with data under the XDG data home.
func Default() *Config {
	dataDir := filepath.Join(xdg.DataHome, isokit.AppName)
	return &Config{
		DataDir:     dataDir,
		TemplateDir: filepath.Join(dataDir, "templates"),
		HarvestDir:  filepath.Join(dataDir, "datacite"),
		IDLogPath:   filepath.Join(dataDir, "ids.txt"),
		CatalogURL:  "http://localhost:8080",
		CatalogUser: "admin",
		DataCiteURL: feeds.DefaultDataCiteURL,
		ZenodoURL:   feeds.DefaultZenodoURL,
		MaxRetries:  3,
		Timeout:     30 * time.Second,
		Workers:     runtime.NumCPU(),
	}
}

// LoadEnv overrides settings from ISOKIT_* environment variables. The
// catalog password is only read from the environment.
func (c *Config) LoadEnv() *Config {
	for name, dst := range map[string]*string{
		"ISOKIT_DATA_DIR":     &c.DataDir,
		"ISOKIT_TEMPLATE_DIR": &c.TemplateDir,
		"ISOKIT_CSW_URL":      &c.CatalogURL,
		"ISOKIT_CSW_USER":     &c.CatalogUser,
		"ISOKIT_CSW_PASSWORD": &c.CatalogPassword,
		"ISOKIT_DATACITE_URL": &c.DataCiteURL,
		"ISOKIT_ZENODO_URL":   &c.ZenodoURL,
	} {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	if v, err := strconv.Atoi(os.Getenv("ISOKIT_WORKERS")); err == nil && v > 0 {
		c.Workers = v
	}
	return c
}
