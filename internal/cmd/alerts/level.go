package alerts

import (
	"strconv"

	"github.com/agentstation/proverbs/internal/cmd/emoji"
	"github.com/agentstation/proverbs/pkg/notifier"
)

// Level is how serious an alert is. Quiet mode hides Success and Info.
type Level int

// Alert levels, most severe first.
const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

const resetColor = "\033[0m"

type levelStyle struct {
	name  string
	icon  string
	color string
}

var styles = map[Level]levelStyle{
	LevelError:   {name: "error", icon: emoji.Error, color: "\033[31m"},
	LevelWarning: {name: "warning", icon: emoji.Warning, color: "\033[33m"},
	LevelInfo:    {name: "info", icon: emoji.Info, color: "\033[36m"},
	LevelSuccess: {name: "success", icon: emoji.Success, color: "\033[32m"},
}

// FromNotifier maps a client notification level onto an alert level.
func FromNotifier(l notifier.Level) Level {
	switch l {
	case notifier.LevelSuccess:
		return LevelSuccess
	case notifier.LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// String returns the level name used in JSON and YAML output.
func (l Level) String() string {
	if s, ok := styles[l]; ok {
		return s.name
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// Icon returns the symbol printed before the message.
func (l Level) Icon() string {
	if s, ok := styles[l]; ok {
		return s.icon
	}
	return emoji.Unknown
}

// Quiet reports whether quiet mode suppresses the level.
func (l Level) Quiet() bool {
	return l == LevelSuccess || l == LevelInfo
}

// paint wraps text in the level's ANSI color.
func (l Level) paint(text string) string {
	s, ok := styles[l]
	if !ok {
		return text
	}
	return s.color + text + resetColor
}
