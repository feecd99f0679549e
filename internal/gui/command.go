package gui

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds the compiler probe of the settings dialog
const versionTimeout = 5 * time.Second

// CompilerVersion returns the first line printed by "command --version"
func CompilerVersion(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	path, err := exec.LookPath(command)
	if err != nil {
		return "", err
	}
	output, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", err
	}

	versionStr := strings.TrimSpace(string(output))
	if i := strings.IndexByte(versionStr, '\n'); i >= 0 {
		versionStr = strings.TrimSpace(versionStr[:i])
	}
	return versionStr, nil
}
