package share

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
)

// ErrShareCancelled is returned by a Sharer when the user dismissed it.
var ErrShareCancelled = errors.New("share cancelled")

// Payload is what a Sharer receives.
type Payload struct {
	Path  string
	Title string
	Text  string
}

// Sharer hands an exported file to something outside the process.
type Sharer interface {
	// Available reports whether Share can work on this system.
	Available() bool
	Share(ctx context.Context, p Payload) error
}

// CommandSharer runs an external command with the file path. The "{file}"
// placeholder in Args is replaced by the path; without one the path is
// appended.
type CommandSharer struct {
	Name string
	Args []string
	// LookPath resolves Name; exec.LookPath when nil.
	LookPath func(string) (string, error)
}

// Available reports whether the command can be found.
func (c *CommandSharer) Available() bool {
	if c == nil || c.Name == "" {
		return false
	}
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	_, err := lookPath(c.Name)
	return err == nil
}

// Share runs the command and waits for it.
func (c *CommandSharer) Share(ctx context.Context, p Payload) error {
	args := make([]string, 0, len(c.Args)+1)
	replaced := false
	for _, a := range c.Args {
		if strings.Contains(a, "{file}") {
			a = strings.ReplaceAll(a, "{file}", p.Path)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, p.Path)
	}

	logging.FromContext(ctx).Debug().Str("command", c.Name).Strs("args", args).Str("title", p.Title).Msg("Sharing file")
	cmd := exec.CommandContext(ctx, c.Name, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Join(ErrShareCancelled, ctx.Err())
		}
		return errors.WrapResource("share", "file", p.Path, err)
	}
	return nil
}

// OpenerSharer opens the file with the desktop's default handler.
func OpenerSharer() *CommandSharer {
	switch runtime.GOOS {
	case "windows":
		return &CommandSharer{Name: "cmd", Args: []string{"/c", "start", "", "{file}"}}
	case "darwin":
		return &CommandSharer{Name: "open"}
	default:
		return &CommandSharer{Name: "xdg-open"}
	}
}

// NewSharer builds a Sharer from a setting: "auto" or "" for the desktop
// opener, "none" to disable sharing, anything else is a command line.
func NewSharer(setting string) Sharer {
	setting = strings.TrimSpace(setting)
	switch strings.ToLower(setting) {
	case "", "auto":
		return OpenerSharer()
	case "none", "off", "false":
		return nil
	}
	fields := strings.Fields(setting)
	return &CommandSharer{Name: fields[0], Args: fields[1:]}
}
