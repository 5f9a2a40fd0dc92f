package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentstation/proverbs/pkg/favorites"
	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/logging"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Source is a collection that reports changes, such as a favorites store.
type Source interface {
	Subscribe(favorites.Listener) func()
}

// Run starts the browser and blocks until the user quits or ctx ends.
// Changes from src are streamed into the view. When relay is not nil the
// client's notifications are shown in the status line while it runs.
func Run(ctx context.Context, client Client, src Source, relay *Relay, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	}, opts...)
	p := tea.NewProgram(New(ctx, client), opts...)

	if relay != nil {
		relay.Attach(p)
		defer relay.Detach()
	}
	if src != nil {
		unsubscribe := src.Subscribe(func(list []proverb.Proverb, trigger kv.Trigger) {
			p.Send(FavoritesMsg{List: list, Trigger: trigger})
		})
		defer unsubscribe()
	}

	logging.FromContext(ctx).Debug().Msg("Favorites browser started")
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
