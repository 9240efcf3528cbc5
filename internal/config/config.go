// Package config reads ~/.floorplanrc and opens the store it selects. Both
// front ends share it.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"floorplan/internal/interact"
	"floorplan/internal/store"
)

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// FileName is the rc file looked up in the home directory.
const FileName = ".floorplanrc"

type Config struct {
	DataDir        string
	Store          string
	ZoomMin        float64
	ZoomMax        float64
	ZoomStep       float64
	ClickThreshold float64
	LogFile        string
	LogLevel       string
	ExportDir      string
}

func Default(homeDir string) *Config {
	view := interact.DefaultViewportConfig()
	return &Config{
		DataDir:        filepath.Join(homeDir, ".floorplan"),
		Store:          StoreJSON,
		ZoomMin:        view.ZoomMin,
		ZoomMax:        view.ZoomMax,
		ZoomStep:       view.ZoomStep,
		ClickThreshold: interact.DefaultDragConfig().ClickThreshold,
		LogLevel:       "info",
	}
}

// Load returns the defaults overlaid with ~/.floorplanrc when it exists.
func Load() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Default("")
	}
	return LoadFile(filepath.Join(homeDir, FileName), homeDir)
}

func LoadFile(path, homeDir string) *Config {
	config := Default(homeDir)
	file, err := os.Open(path)
	if err != nil {
		return config
	}
	defer file.Close()

	Parse(file, homeDir, config)
	return config
}

// Parse applies "key = value" lines from r to config. Unknown keys and
// malformed values are skipped.
func Parse(r io.Reader, homeDir string, config *Config) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "datadir", "data_dir", "data":
			config.DataDir = expandPath(value, homeDir)
		case "store", "backend":
			switch v := strings.ToLower(value); v {
			case StoreJSON, StoreSQLite:
				config.Store = v
			}
		case "zoommin", "zoom_min":
			setFloat(&config.ZoomMin, value)
		case "zoommax", "zoom_max":
			setFloat(&config.ZoomMax, value)
		case "zoomstep", "zoom_step":
			setFloat(&config.ZoomStep, value)
		case "clickthreshold", "click_threshold":
			setFloat(&config.ClickThreshold, value)
		case "logfile", "log_file", "log":
			config.LogFile = expandPath(value, homeDir)
		case "loglevel", "log_level":
			config.LogLevel = strings.ToLower(value)
		case "exportdir", "export_dir", "savedirectory", "save_directory":
			config.ExportDir = expandPath(value, homeDir)
		}
	}
}

func setFloat(dst *float64, value string) {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		*dst = f
	}
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if value != "" && !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetExportPath(filename string) string {
	if c.ExportDir == "" {
		return filename
	}
	os.MkdirAll(c.ExportDir, 0755)
	return filepath.Join(c.ExportDir, filename)
}

// EditorOptions returns editor options carrying the zoom limits and the
// click threshold.
func (c *Config) EditorOptions() interact.Options {
	opts := interact.DefaultOptions()
	opts.Viewport = interact.ViewportConfig{ZoomMin: c.ZoomMin, ZoomMax: c.ZoomMax, ZoomStep: c.ZoomStep}
	opts.Drag.ClickThreshold = c.ClickThreshold
	return opts
}

// OpenStore opens the configured backend under DataDir, creating the
// directory first.
func (c *Config) OpenStore(zlog *zap.Logger) (*store.Store, error) {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return nil, err
	}
	var (
		kv  store.KV
		err error
	)
	switch c.Store {
	case StoreSQLite:
		kv, err = store.OpenSQLite(filepath.Join(c.DataDir, "floorplan.db"))
	case StoreJSON:
		kv, err = store.OpenDir(c.DataDir)
	default:
		return nil, fmt.Errorf("unknown store %q, want %s or %s", c.Store, StoreJSON, StoreSQLite)
	}
	if err != nil {
		return nil, err
	}
	zlog.Info("store opened", zap.String("store", c.Store), zap.String("dir", c.DataDir))
	return store.Open(kv, zlog.Named("store"))
}
