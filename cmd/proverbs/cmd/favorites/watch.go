package favorites

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/emoji"
	"github.com/agentstation/proverbs/internal/cmd/output"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Event is one favorites change printed by watch.
type Event struct {
	Event   string          `json:"event" yaml:"event"`
	Proverb proverb.Proverb `json:"proverb" yaml:"proverb"`
}

// NewWatchCommand creates the favorites watch subcommand.
func NewWatchCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print favorites changes made by other processes",
		Long: `Watch prints a line for every proverb added to or removed from the
favorites until interrupted. With -o json or -o yaml each line is a JSON
object.`,
		Example: `  proverbs favorites watch
  proverbs favorites watch -o json | jq .proverb.id`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			printer := newEventPrinter(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()))
			c.OnFavoriteAdded(func(p proverb.Proverb) { printer.print("added", p) })
			c.OnFavoriteRemoved(func(p proverb.Proverb) { printer.print("removed", p) })

			if err := c.Watch(ctx); err != nil {
				return err
			}
			app.Logger().Info().Int("favorites", len(c.ListFavorites(ctx))).Msg("Watching favorites")

			<-ctx.Done()
			return nil
		},
	}
}

type eventPrinter struct {
	mu     sync.Mutex
	w      io.Writer
	format output.Format
}

func newEventPrinter(w io.Writer, format output.Format) *eventPrinter {
	return &eventPrinter{w: w, format: format}
}

func (p *eventPrinter) print(event string, pv proverb.Proverb) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.format {
	case output.FormatJSON, output.FormatYAML:
		b, err := json.Marshal(Event{Event: event, Proverb: pv})
		if err != nil {
			return
		}
		_, _ = fmt.Fprintf(p.w, "%s\n", b)
	default:
		mark := emoji.Favorite
		if event == "removed" {
			mark = emoji.NotFavorite
		}
		_, _ = fmt.Fprintf(p.w, "%s %-7s #%d %s\n", mark, event, pv.ID, pv.Proverb)
	}
}
