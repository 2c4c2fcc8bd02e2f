package opener

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// Opener hands URLs to an external program (open, xdg-open, a browser).
// The command is configurable; construction never fails so the TUI can start
// even on systems without a known opener.
type Opener struct {
	command string
}

func New(command string) *Opener {
	return &Opener{command: command}
}

// Open launches the opener with the given URL. Only http(s) URLs with a host
// are handed to the external command.
func (o *Opener) Open(rawURL string) error {
	if !isSafeExternalURL(rawURL) {
		return fmt.Errorf("refusing to open %q", rawURL)
	}
	if o.command == "" {
		return fmt.Errorf("no opener command configured")
	}
	if err := exec.Command(o.command, rawURL).Start(); err != nil {
		return fmt.Errorf("launching %s: %w", o.command, err)
	}
	return nil
}

func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
