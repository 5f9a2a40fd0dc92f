// Package alerts renders the confirmations and failures the CLI shows on
// stderr. An alert can name the proverb it concerns, the image it saved and
// the form field it rejects.
package alerts

import (
	"strconv"
	"strings"
)

// Alert is one user-facing notice.
type Alert struct {
	Level   Level
	Message string

	// ProverbID is the proverb the alert is about, zero when none.
	ProverbID int
	// Path is the exported image, if any.
	Path string
	// Field is the subscription form field that failed validation.
	Field string

	Err error
}

// New creates an alert.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// ForProverb attaches the proverb id.
func (a *Alert) ForProverb(id int) *Alert {
	a.ProverbID = id
	return a
}

// WithPath attaches the path of an exported image.
func (a *Alert) WithPath(path string) *Alert {
	a.Path = path
	return a
}

// WithField attaches the name of an invalid form field.
func (a *Alert) WithField(name string) *Alert {
	a.Field = name
	return a
}

// WithError attaches the underlying error.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// String renders the headline: icon, message and error.
func (a *Alert) String() string {
	var b strings.Builder
	b.WriteString(a.Level.Icon())
	b.WriteByte(' ')
	b.WriteString(a.Message)
	if a.Err != nil {
		b.WriteString(": ")
		b.WriteString(a.Err.Error())
	}
	return b.String()
}

// context lists the attached details in display order.
func (a *Alert) context() [][2]string {
	var out [][2]string
	if a.ProverbID > 0 {
		out = append(out, [2]string{"proverb", strconv.Itoa(a.ProverbID)})
	}
	if a.Path != "" {
		out = append(out, [2]string{"path", a.Path})
	}
	if a.Field != "" {
		out = append(out, [2]string{"field", a.Field})
	}
	return out
}
