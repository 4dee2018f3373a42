package app

import (
	"os"
	"path/filepath"

	"github.com/corey/pokesrc/internal/config"
)

// Paths holds all resolved filesystem paths for the .pokesrc/ project directory.
type Paths struct {
	Root   string // .pokesrc/
	Config string // .pokesrc/config.yaml
	Cache  string // .pokesrc/cache.db

	RunDir   string // .pokesrc/run/
	PortFile string // .pokesrc/run/http.port
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".pokesrc")
	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
		Cache:  filepath.Join(root, "cache.db"),

		RunDir:   filepath.Join(root, "run"),
		PortFile: filepath.Join(root, "run", "http.port"),
	}
}

// EnsureDirs creates all subdirectories under .pokesrc/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ConfigPath picks the config file: an explicit flag value, then the
// POKESRC_CONFIG environment variable, then the project default.
func (p *Paths) ConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(config.EnvPath); env != "" {
		return env
	}
	return p.Config
}

// CleanEphemeral removes ephemeral runtime files (the port file).
// Called on clean server shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PortFile)
}
