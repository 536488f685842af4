package cmd

import (
	"fmt"
	"os"
)

// terminal reports whether f is attached to a character device.
func terminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// resolveColor maps a --color value to a decision. "auto" colors only a
// terminal stdout and yields to NO_COLOR.
func resolveColor(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return os.Getenv("NO_COLOR") == "" && terminal(os.Stdout), nil
	}
	return false, fmt.Errorf("--color: unknown mode %q (want auto, always or never)", mode)
}
