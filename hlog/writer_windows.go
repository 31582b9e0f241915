//go:build windows
// +build windows

package hlog

import (
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/windows/svc"
)

func IsTerminal() bool {
	// A service has no console regardless of handle state.
	if isService, err := svc.IsWindowsService(); err == nil && isService {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func getLogDir() string {
	if isService, err := svc.IsWindowsService(); err == nil && isService {
		return filepath.Join(os.Getenv("ProgramData"), "Tigo", "logs")
	}

	appData := os.Getenv("LOCALAPPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
	}
	return filepath.Join(appData, "Tigo", "logs")
}
