// Package share copies proverbs to the clipboard and exports them as PNG
// cards that can be handed to the desktop's share handler.
package share

import (
	"context"

	"github.com/atotto/clipboard"

	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
	"github.com/agentstation/proverbs/pkg/notifier"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Clipboard messages.
const (
	MsgCopied     = "Proverb copied to clipboard!"
	MsgCopyFailed = "Failed to copy proverb."
)

// Clipboard accepts text for the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll places text on the clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.Join(errors.ErrUnsupported, errors.New("no clipboard utility found"))
	}
	return clipboard.WriteAll(text)
}

// CopyToClipboard writes text once. Failures are returned, never retried.
func CopyToClipboard(cb Clipboard, text string) error {
	if cb == nil {
		cb = SystemClipboard{}
	}
	if err := cb.WriteAll(text); err != nil {
		return errors.WrapResource("copy", "clipboard", "", err)
	}
	return nil
}

// CopyProverb places the proverb's text form on the clipboard and tells the
// user whether it worked.
func CopyProverb(ctx context.Context, cb Clipboard, n notifier.Notifier, p proverb.Proverb) error {
	if n == nil {
		n = notifier.Discard
	}
	if err := CopyToClipboard(cb, p.Text()); err != nil {
		logging.FromContext(ctx).Error().Err(err).Int("proverb_id", p.ID).Msg("Failed to copy")
		n.Notify(notifier.LevelError, MsgCopyFailed)
		return err
	}
	n.Notify(notifier.LevelSuccess, MsgCopied)
	return nil
}
