// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the blastfurnace.toml project manifest.
type Config struct {
	Pack        Pack     `toml:"pack"`
	SourceRoots []string `toml:"source_roots"`
	Exclude     Exclude  `toml:"exclude"`
	Output      Output   `toml:"output"`
	Watch       Watch    `toml:"watch"`
	History     History  `toml:"history"`
}

type Pack struct {
	Name        string `toml:"name"`
	Namespace   string `toml:"namespace"`
	Description string `toml:"description"`
	Format      int    `toml:"format"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Output struct {
	Dir string `toml:"dir"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Token bucket for rebuilds during watch-mode churn.
	RebuildsPerSecond float64 `toml:"rebuilds_per_second"`
	RebuildBurst      int     `toml:"rebuild_burst"`
}

type History struct {
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	if cfg.Pack.Name == "" {
		cfg.Pack.Name = "pack"
	}
	if cfg.Pack.Namespace == "" {
		cfg.Pack.Namespace = "bf"
	}
	if cfg.Pack.Format == 0 {
		cfg.Pack.Format = 48
	}
	if len(cfg.SourceRoots) == 0 {
		cfg.SourceRoots = []string{"."}
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./build"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RebuildsPerSecond == 0 {
		cfg.Watch.RebuildsPerSecond = 2
	}
	if cfg.Watch.RebuildBurst == 0 {
		cfg.Watch.RebuildBurst = 1
	}

	return &cfg, nil
}
