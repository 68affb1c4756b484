package opener

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/pders01/riffle/internal/debuglog"
)

// Opener launches URLs in the user's preferred application without
// blocking the TUI.
type Opener struct {
	command string
	log     *debuglog.Logger
}

// New returns an opener using the given command, falling back to the
// platform default when it is empty.
func New(command string) *Opener {
	if command == "" {
		command = defaultCommand()
	}
	return &Opener{
		command: command,
		log:     debuglog.For("opener"),
	}
}

// Open starts the configured command with the URL and detaches. Only http
// and https URLs are accepted; feeds can carry javascript: or file: links.
func (o *Opener) Open(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("refusing to open %s URL", parsed.Scheme)
	}
	if o.command == "" {
		return fmt.Errorf("no opener command configured")
	}

	cmd := exec.Command(o.command, rawURL)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", o.command, err)
	}
	o.log.Debugf("opened %s with %s", rawURL, o.command)

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func defaultCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		if cmd := findCommand("xdg-open", "sensible-browser", "x-www-browser"); cmd != "" {
			return cmd
		}
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
