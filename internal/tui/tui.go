package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/hardfox-dev/hardfox/internal/errors"
	"github.com/hardfox-dev/hardfox/pkg/session"
	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/view"
)

const helpText = "↑/↓ move • enter toggle • / search • a advanced • d descriptions • r reset • R reset all • q quit"

type appModel struct {
	ctx   context.Context
	sess  *session.Session
	store *rowStore

	cursor int
	offset int

	search    textinput.Model
	searching bool

	width  int
	height int

	status string
	err    error
}

func newAppModel(ctx context.Context, vm *view.Model, opts ...session.Option) (appModel, error) {
	store := newRowStore()
	m := appModel{
		ctx:   ctx,
		sess:  session.New(vm, store, opts...),
		store: store,
	}

	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = "search settings"
	m.search.CharLimit = 100
	m.search.Width = 40
	m.search.SetValue(vm.Query())

	rep, err := m.sess.Render(ctx, session.TriggerInitial)
	if err != nil {
		return m, err
	}
	m.status = rep.Metrics.String()
	return m, nil
}

// Run shows the settings panel of vm until the user quits.
func Run(ctx context.Context, vm *view.Model, opts ...session.Option) error {
	if noColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	m, err := newAppModel(ctx, vm, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.store.rows))
		case "end", "G":
			m.move(len(m.store.rows))
		case "/":
			m.searching = true
			cmd := m.search.Focus()
			return m, cmd
		case "enter", " ":
			m.activate()
		case "a":
			var show bool
			m.sess.View(func(vm *view.Model) { show = vm.ShowAdvanced() })
			m.dispatch(view.Event{Kind: view.EventShowAdvanced, Enabled: !show})
		case "d":
			var show bool
			m.sess.View(func(vm *view.Model) { show = vm.ShowDescriptions() })
			m.dispatch(view.Event{Kind: view.EventShowDescriptions, Enabled: !show})
		case "r":
			if r := m.selected(); r != nil && !r.isHeader() {
				m.dispatch(view.Event{Kind: view.EventReset, Key: r.key})
			}
		case "R":
			m.dispatch(view.Event{Kind: view.EventResetAll})
		}
		return m, nil
	}
	return m, nil
}

// updateSearch feeds keys to the search box. Every edit re-renders the
// panel; esc clears the query and enter keeps it.
func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.dispatch(view.Event{Kind: view.EventSearch})
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.dispatch(view.Event{Kind: view.EventSearch, Query: q})
	}
	return m, cmd
}

// activate expands or collapses a header, or toggles a setting.
func (m *appModel) activate() {
	r := m.selected()
	if r == nil {
		return
	}
	if r.isHeader() {
		m.dispatch(view.Event{Kind: view.EventToggleCategory, Category: r.header.Category})
		return
	}
	if r.setting.Setting.Type == setting.TypeInput {
		m.status = r.key + " is edited over the HTTP API"
		m.err = nil
		return
	}
	m.dispatch(view.Event{Kind: view.EventToggle, Key: r.key})
}

// dispatch applies ev and renders once. The cursor stays on the selected
// key when it survives the render.
func (m *appModel) dispatch(ev view.Event) {
	var key string
	if r := m.selected(); r != nil {
		key = r.key
	}

	rep, err := m.sess.Dispatch(m.ctx, ev)
	if err != nil {
		m.err = err
		if errors.HasCode(err, "E020") || errors.HasCode(err, "E021") {
			m.rebuild()
		}
	} else {
		m.err = nil
		m.status = rep.Metrics.String()
	}

	if i := m.store.indexOfKey(key); i >= 0 {
		m.cursor = i
	}
	m.move(0)
}

// rebuild clears the panel after an adapter failure and renders it from
// scratch.
func (m *appModel) rebuild() {
	m.store.reset()
	m.sess.Invalidate()
	if _, err := m.sess.Render(m.ctx, session.TriggerRebuild); err != nil {
		m.err = err
	}
}

func (m *appModel) selected() *row {
	if m.cursor < 0 || m.cursor >= len(m.store.rows) {
		return nil
	}
	return m.store.rows[m.cursor]
}

func (m *appModel) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.store.rows) {
		m.cursor = len(m.store.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *appModel) scroll() {
	visible := m.visibleRows()
	if visible <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// visibleRows is the number of panel lines that fit between the chrome,
// or 0 when the terminal size is unknown.
func (m appModel) visibleRows() int {
	if m.height == 0 {
		return 0
	}
	n := m.height - 5
	if n < 1 {
		n = 1
	}
	return n
}

func (m appModel) View() string {
	var b strings.Builder

	var modified int
	m.sess.View(func(vm *view.Model) { modified = vm.ModificationCount() })
	title := titleStyle.Render("hardfox")
	if modified > 0 {
		title += " " + modifiedStyle.Render("● "+plural(modified, "change"))
	}
	b.WriteString(title)
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n")

	end := len(m.store.rows)
	if v := m.visibleRows(); v > 0 && m.offset+v < end {
		end = m.offset + v
	}
	if len(m.store.rows) == 0 {
		b.WriteString(helpStyle.Render("  no settings match"))
		b.WriteString("\n")
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(errors.FromError(m.err, "E020").FormatCompact()))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m appModel) renderRow(i int) string {
	r := m.store.rows[i]
	text := r.text
	if !r.isHeader() {
		var mod bool
		m.sess.View(func(vm *view.Model) { mod = vm.IsModified(r.key) })
		if mod {
			text = modifiedStyle.Render("  *") + strings.TrimPrefix(text, "   ")
		}
	}
	if i == m.cursor {
		return selectedStyle.Render(text)
	}
	return text
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
