// Package tui is the interactive favorites browser: the collection on the
// left, the selected proverb on the right.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentstation/proverbs/pkg/favorites"
	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/notifier"
	"github.com/agentstation/proverbs/pkg/proverb"
	"github.com/agentstation/proverbs/pkg/share"
)

// Empty-state texts.
const (
	MsgNoFavorites = "You don't have any favorite proverbs yet."
	MsgNoSelection = "Select a proverb from your favorites to view details"
)

const (
	minListWidth = 28
	helpLine     = "↑/↓ select • d remove • c copy • e export • r refresh • esc deselect • q quit"
)

// Client is what the browser needs from the proverbs client.
type Client interface {
	ListFavorites(ctx context.Context) []proverb.Proverb
	RemoveFavorite(ctx context.Context, id int) (bool, error)
	RefreshFavorites(ctx context.Context, trigger kv.Trigger) []proverb.Proverb
	Copy(ctx context.Context, p proverb.Proverb) error
	Export(ctx context.Context, p proverb.Proverb, offer bool) (share.Result, error)
}

// FavoritesMsg delivers a collection read from storage.
type FavoritesMsg struct {
	List    []proverb.Proverb
	Trigger kv.Trigger
}

type removedMsg struct {
	id   int
	list []proverb.Proverb
	err  error
}

type actionDoneMsg struct {
	err error
}

// Model is the bubbletea model of the favorites browser.
type Model struct {
	ctx    context.Context
	client Client
	styles Styles

	list []proverb.Proverb
	sel  favorites.Selection

	detail viewport.Model
	width  int
	height int

	status      string
	statusLevel notifier.Level
	busy        bool
}

// New loads the collection and selects its first entry.
func New(ctx context.Context, client Client) Model {
	m := Model{
		ctx:    ctx,
		client: client,
		styles: DefaultStyles(),
		detail: viewport.New(40, 12),
		width:  80,
		height: 20,
	}
	m.list = client.ListFavorites(ctx)
	m.sel.Load(m.list)
	m.layout()
	return m
}

// Selection returns the detail pane state.
func (m Model) Selection() favorites.Selection { return m.sel }

// Favorites returns the collection the browser shows.
func (m Model) Favorites() []proverb.Proverb { return m.list }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.FocusMsg:
		return m, m.refresh(kv.TriggerFocus)

	case tea.ResumeMsg:
		return m, m.refresh(kv.TriggerVisible)

	case FavoritesMsg:
		m.list = msg.List
		m.sel.Sync(m.list)
		m.renderDetail()
		return m, nil

	case removedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(notifier.LevelError, msg.err.Error())
			return m, nil
		}
		m.list = msg.list
		m.sel.Removed(msg.id, m.list)
		m.renderDetail()
		return m, nil

	case actionDoneMsg:
		m.busy = false
		if msg.err != nil && m.status == "" {
			m.setStatus(notifier.LevelError, msg.err.Error())
		}
		return m, nil

	case NoticeMsg:
		m.setStatus(msg.Level, msg.Message)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "home", "g":
		if len(m.list) > 0 {
			m.sel.Select(m.list[0].ID, m.list)
		}
	case "end", "G":
		if len(m.list) > 0 {
			m.sel.Select(m.list[len(m.list)-1].ID, m.list)
		}
	case "esc":
		m.sel.Deselect(m.list)
	case "r":
		return m, m.refresh(kv.TriggerVisible)
	case "d", "delete":
		return m.remove()
	case "c":
		return m.act(func(ctx context.Context, p proverb.Proverb) error {
			return m.client.Copy(ctx, p)
		})
	case "e":
		return m.act(func(ctx context.Context, p proverb.Proverb) error {
			_, err := m.client.Export(ctx, p, true)
			return err
		})
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
	m.status = ""
	m.renderDetail()
	return m, nil
}

// move selects the neighbour of the current selection, clamped to the ends.
func (m *Model) move(delta int) {
	if len(m.list) == 0 {
		return
	}
	i := -1
	if id, ok := m.sel.ID(); ok {
		for j, p := range m.list {
			if p.ID == id {
				i = j
				break
			}
		}
	}
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(m.list) - 1
	default:
		i = max(0, min(len(m.list)-1, i+delta))
	}
	m.sel.Select(m.list[i].ID, m.list)
}

func (m Model) remove() (tea.Model, tea.Cmd) {
	id, ok := m.sel.ID()
	if !ok || m.busy {
		return m, nil
	}
	m.busy = true
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		_, err := client.RemoveFavorite(ctx, id)
		return removedMsg{id: id, list: client.ListFavorites(ctx), err: err}
	}
}

func (m Model) act(fn func(context.Context, proverb.Proverb) error) (tea.Model, tea.Cmd) {
	p, ok := m.sel.Current(m.list)
	if !ok {
		m.setStatus(notifier.LevelError, share.MsgNoSelection)
		return m, nil
	}
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.status = ""
	ctx := m.ctx
	return m, func() tea.Msg {
		return actionDoneMsg{err: fn(ctx, p)}
	}
}

func (m Model) refresh(trigger kv.Trigger) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		return FavoritesMsg{List: client.RefreshFavorites(ctx, trigger), Trigger: trigger}
	}
}

func (m *Model) setStatus(level notifier.Level, message string) {
	m.status, m.statusLevel = message, level
}

func (m *Model) layout() {
	listWidth := max(minListWidth, m.width/3)
	m.detail.Width = max(10, m.width-listWidth-6)
	m.detail.Height = max(3, m.height-6)
	m.renderDetail()
}

func (m *Model) renderDetail() {
	var b strings.Builder
	switch m.sel.State() {
	case favorites.NoFavorites:
		b.WriteString(m.styles.Empty.Render(MsgNoFavorites))
	case favorites.NoSelection:
		b.WriteString(m.styles.Empty.Render(MsgNoSelection))
	case favorites.Selected:
		p, _ := m.sel.Current(m.list)
		w := m.detail.Width
		b.WriteString(m.styles.Proverb.Width(w).Render(p.Proverb))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Label.Render("Translation:") + " ")
		b.WriteString(lipgloss.NewStyle().Width(w).Render(p.Translation))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Label.Render("Wisdom:") + " ")
		b.WriteString(m.styles.Wisdom.Width(w).Render(p.Wisdom))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render(fmt.Sprintf("Proverb #%d", p.ID)))
	}
	m.detail.SetContent(b.String())
	m.detail.GotoTop()
}

// View implements tea.Model.
func (m Model) View() string {
	listWidth := max(minListWidth, m.width/3)

	var left strings.Builder
	left.WriteString(m.styles.Title.Render(fmt.Sprintf("Your Favorites (%d)", len(m.list))))
	left.WriteString("\n")
	selected, _ := m.sel.ID()
	for _, p := range m.list {
		text := truncate(p.Proverb, listWidth-4)
		if m.sel.State() == favorites.Selected && p.ID == selected {
			left.WriteString(m.styles.Selected.Render(text))
		} else {
			left.WriteString(m.styles.Item.Render(text))
		}
		left.WriteString("\n")
	}
	if len(m.list) == 0 {
		left.WriteString(m.styles.Empty.Render("(none)"))
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Pane.Width(listWidth).Render(left.String()),
		m.styles.Pane.Render(m.detail.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		panes,
		m.statusView(),
		m.styles.Help.Render(helpLine),
	)
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	switch m.statusLevel {
	case notifier.LevelSuccess:
		return m.styles.StatusOK.Render(m.status)
	case notifier.LevelError:
		return m.styles.StatusErr.Render(m.status)
	default:
		return m.styles.StatusInfo.Render(m.status)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
