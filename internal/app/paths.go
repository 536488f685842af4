package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .occur/ project directory.
type Paths struct {
	Root string // .occur/
	DB   string // .occur/occur.db

	LogDir  string // .occur/log/
	LogFile string // .occur/log/occur.log

	RunDir   string // .occur/run/
	PortFile string // .occur/run/http.port
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".occur")
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "occur.db"),

		LogDir:  filepath.Join(root, "log"),
		LogFile: filepath.Join(root, "log", "occur.log"),

		RunDir:   filepath.Join(root, "run"),
		PortFile: filepath.Join(root, "run", "http.port"),
	}
}

// EnsureDirs creates all subdirectories under .occur/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
