// Package proverb implements the single-proverb commands: random, show,
// copy, export and link.
package proverb

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs"
	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/globals"
	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/internal/cmd/output"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// MsgSaveFailed is shown when the favorites collection cannot be stored.
const MsgSaveFailed = "Failed to save favorites."

// lookup returns the stored favorite with the given id, fetching it from
// the API when it is not a favorite. Fetch failures are already alerted.
func lookup(ctx context.Context, c proverbs.Client, raw string) (proverb.Proverb, error) {
	id, err := proverb.ParseID(raw)
	if err != nil {
		return proverb.Proverb{}, err
	}
	if p, ok := c.Favorites().Get(ctx, id); ok {
		return p, nil
	}
	p, err := c.ByID(ctx, raw)
	if err != nil {
		return proverb.Proverb{}, notify.Reported(err)
	}
	return p, nil
}

// printProverb writes p to the command's output in the configured format.
func printProverb(cmd *cobra.Command, app application.Application, c proverbs.Client, p proverb.Proverb) error {
	fav := c.IsFavorite(cmd.Context(), p.ID)
	return output.WriteProverb(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), p, &fav)
}

// runActions performs the follow-ups requested by flags. They are secondary
// to showing the proverb, so failures are alerted and logged but do not fail
// the command.
func runActions(ctx context.Context, app application.Application, c proverbs.Client, p proverb.Proverb, flags *globals.ActionFlags) {
	log := app.Logger()

	if flags.Copy {
		if err := c.Copy(ctx, p); err != nil {
			log.Debug().Err(err).Int("proverb_id", p.ID).Msg("Copy failed")
		}
	}
	if flags.Favorite {
		if _, err := c.ToggleFavorite(ctx, p); err != nil {
			_ = app.Notifier().ProverbError(p.ID, MsgSaveFailed, err)
		}
	}
	if flags.Export || flags.Share {
		if _, err := c.ExportTo(ctx, p, flags.Dir, flags.Share); err != nil {
			log.Debug().Err(err).Int("proverb_id", p.ID).Msg("Export failed")
		}
	}
}

// client resolves the app's client, wrapping creation failures.
func client(ctx context.Context, app application.Application) (proverbs.Client, error) {
	c, err := app.Client(ctx)
	if err != nil {
		return nil, errors.WrapResource("create", "proverbs client", "", err)
	}
	return c, nil
}
