// Package clipboard is the bridge to the system clipboard. Expansion results
// are delivered here, and the {clipboard} placeholder is filled from here.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	atotto "github.com/atotto/clipboard"
)

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError with helpful installation instructions
func NewClipboardError() *ClipboardError {
	var msg string
	switch runtime.GOOS {
	case "linux":
		msg = "no clipboard utility found. Install one of:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		msg = "pbcopy not available (this should not happen on macOS)"
	case "windows":
		msg = "clip command not available (this should not happen on Windows)"
	default:
		msg = fmt.Sprintf("clipboard not supported on %s", runtime.GOOS)
	}

	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: msg,
	}
}

// Read returns the current clipboard text. Callers expanding templates treat
// a failure as empty content; the error is still reported for surfaces that
// want to show it.
func Read() (string, error) {
	if !atotto.Unsupported {
		if text, err := atotto.ReadAll(); err == nil {
			return text, nil
		}
	}
	if runtime.GOOS == "linux" {
		return readLinux()
	}
	return "", NewClipboardError()
}

// Copy writes text to the system clipboard
func Copy(text string) error {
	if !atotto.Unsupported {
		if err := atotto.WriteAll(text); err == nil {
			return nil
		}
	}
	if runtime.GOOS == "linux" {
		return copyLinux(text)
	}
	return NewClipboardError()
}

// readLinux reads the clipboard through whichever utility is installed
func readLinux() (string, error) {
	candidates := [][]string{
		{"xclip", "-selection", "clipboard", "-o"},
		{"xsel", "--clipboard", "--output"},
		{"wl-paste", "--no-newline"},
	}

	var lastErr error
	for _, c := range candidates {
		if !isCommandAvailable(c[0]) {
			continue
		}
		out, err := exec.Command(c[0], c[1:]...).Output()
		if err == nil {
			return string(out), nil
		}
		lastErr = fmt.Errorf("%s failed: %w", c[0], err)
	}

	if lastErr != nil {
		return "", fmt.Errorf("clipboard utilities available but failed: %w", lastErr)
	}
	return "", NewClipboardError()
}

// copyLinux writes the clipboard through whichever utility is installed
func copyLinux(text string) error {
	candidates := [][]string{
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
		{"wl-copy"},
	}

	var lastErr error
	for _, c := range candidates {
		if !isCommandAvailable(c[0]) {
			continue
		}
		cmd := exec.Command(c[0], c[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		} else {
			lastErr = fmt.Errorf("%s failed: %w", c[0], err)
		}
	}

	if lastErr != nil {
		return fmt.Errorf("clipboard utilities available but failed: %w", lastErr)
	}
	return NewClipboardError()
}

// isCommandAvailable checks if a command is available in PATH
func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// CopyWithFallback attempts to copy to clipboard and returns a status message.
// On failure the produced text remains with the caller for manual copy.
func CopyWithFallback(text string) (string, error) {
	err := Copy(text)
	if err != nil {
		var clipErr *ClipboardError
		if errors.As(err, &clipErr) {
			// Missing utilities: surface the installation instructions.
			return "", err
		}
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return "Copied to clipboard!", nil
}

// IsClipboardAvailable checks if clipboard functionality is available
func IsClipboardAvailable() bool {
	if !atotto.Unsupported {
		return true
	}
	switch runtime.GOOS {
	case "darwin":
		return isCommandAvailable("pbcopy")
	case "linux":
		return isCommandAvailable("xclip") || isCommandAvailable("xsel") || isCommandAvailable("wl-copy")
	case "windows":
		return true
	default:
		return false
	}
}
