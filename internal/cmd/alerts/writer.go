package alerts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/agentstation/proverbs/internal/cmd/output"
)

// Writer prints alerts in one output format. Plain output is a headline
// followed by indented "key: value" context lines. JSON and YAML carry the
// same context as fields so scripts can pick up the proverb id or image path.
type Writer struct {
	w      io.Writer
	format output.Format
	color  bool
}

// NewWriter creates a writer for format. Color is enabled when w is a
// terminal.
func NewWriter(w io.Writer, format output.Format) *Writer {
	return &Writer{w: w, format: format, color: isTerminal(w)}
}

// WithColor forces color on or off.
func (aw *Writer) WithColor(on bool) *Writer {
	aw.color = on
	return aw
}

// Write prints a.
func (aw *Writer) Write(a *Alert) error {
	switch aw.format {
	case output.FormatJSON:
		enc := json.NewEncoder(aw.w)
		enc.SetIndent("", "  ")
		return enc.Encode(record(a))
	case output.FormatYAML:
		b, err := yaml.MarshalWithOptions(record(a), yaml.Indent(2))
		if err != nil {
			return err
		}
		// Consecutive alerts stay parseable as a YAML stream.
		_, err = fmt.Fprintf(aw.w, "---\n%s", b)
		return err
	default:
		return aw.writePlain(a)
	}
}

func (aw *Writer) writePlain(a *Alert) error {
	line := a.String()
	if aw.color {
		line = a.Level.paint(line)
	}
	if _, err := fmt.Fprintln(aw.w, line); err != nil {
		return err
	}
	for _, kv := range a.context() {
		if _, err := fmt.Fprintf(aw.w, "   %s: %s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// alertRecord is the structured form of an Alert.
type alertRecord struct {
	Level     string `json:"level" yaml:"level"`
	Message   string `json:"message" yaml:"message"`
	ProverbID int    `json:"proverb_id,omitempty" yaml:"proverb_id,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Field     string `json:"field,omitempty" yaml:"field,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

func record(a *Alert) alertRecord {
	r := alertRecord{
		Level:     a.Level.String(),
		Message:   a.Message,
		ProverbID: a.ProverbID,
		Path:      a.Path,
		Field:     a.Field,
	}
	if a.Err != nil {
		r.Error = a.Err.Error()
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
