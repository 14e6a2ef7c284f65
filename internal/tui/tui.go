// Package tui renders the recipe list view as a Bubble Tea program.
//
// All view state lives in the Update loop. Requests run as commands and come
// back as resultMsg, so the UI stays interactive while they are in flight.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/recipes/internal/listview"
	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options tune what the program shows.
type Options struct {
	// ShowErrors puts the last failure in the status line. Failures are
	// always logged either way.
	ShowErrors bool
}

// resultMsg carries a finished request back into Update.
type resultMsg struct {
	listview.Result
}

type focusField int

const (
	focusTitle focusField = iota
	focusBody
)

type keyMap struct {
	add, edit, del, reload, save, cancel, next key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		del:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		next:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
	}
}

// Model is the Bubble Tea model for the recipe list.
type Model struct {
	ctx  context.Context
	view *listview.View
	opts Options
	keys keyMap

	list  list.Model
	title textinput.Model
	body  textinput.Model
	focus focusField

	inFlight      int
	width, height int
}

// New builds the model. Init issues the first fetch.
func New(ctx context.Context, view *listview.View, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	t := ui.Current()
	keys := newKeyMap()

	l := list.New(toItems(view.Recipes()), recipeDelegate{view: view}, defaultWidth-4, defaultHeight-5)
	l.Title = ui.Header(view.Len())
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("recipe", "recipes")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.add, keys.edit, keys.del, keys.reload}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.add, keys.edit, keys.del, keys.reload, keys.save, keys.cancel, keys.next}
	}

	return Model{
		ctx:      ctx,
		view:     view,
		opts:     opts,
		keys:     keys,
		list:     l,
		title:    newInput("Title: ", "Recipe title...", 200),
		body:     newInput("Body:  ", "Recipe description...", 2000),
		inFlight: 1,
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

func newInput(prompt, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, view *listview.View, opts Options) error {
	p := tea.NewProgram(New(ctx, view, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.request(func(ctx context.Context, v *listview.View) listview.Result {
		return v.RequestList(ctx)
	})
}

// issue counts a new request and returns the command performing it.
func (m *Model) issue(req func(ctx context.Context, v *listview.View) listview.Result) tea.Cmd {
	m.inFlight++
	return m.request(req)
}

func (m Model) request(req func(ctx context.Context, v *listview.View) listview.Result) tea.Cmd {
	ctx, v := m.ctx, m.view
	return func() tea.Msg {
		return resultMsg{req(ctx, v)}
	}
}

func (m *Model) fetch() tea.Cmd {
	return m.issue(func(ctx context.Context, v *listview.View) listview.Result {
		return v.RequestList(ctx)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.width-4, m.height-5)
		return m, nil

	case resultMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		refresh := m.view.Apply(msg.Result)
		if !m.view.IsEditing() {
			m.blurInputs()
		}
		m.list.Title = ui.Header(m.view.Len())
		cmds := []tea.Cmd{m.list.SetItems(toItems(m.view.Recipes()))}
		if refresh {
			cmds = append(cmds, m.fetch())
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view.IsEditing() {
			return m.updateEditing(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case msg.String() == "q":
			return m, tea.Quit
		case key.Matches(msg, m.keys.add):
			return m, m.issue(func(ctx context.Context, v *listview.View) listview.Result {
				return v.RequestCreate(ctx, model.NewPlaceholder())
			})
		case key.Matches(msg, m.keys.reload):
			return m, m.fetch()
		case key.Matches(msg, m.keys.edit):
			if it, ok := m.list.SelectedItem().(recipeItem); ok {
				m.beginEdit(it.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.del):
			if it, ok := m.list.SelectedItem().(recipeItem); ok {
				id := it.ID
				return m, m.issue(func(ctx context.Context, v *listview.View) listview.Result {
					return v.RequestDelete(ctx, id)
				})
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.save):
		m.view.SetDraft(m.title.Value(), m.body.Value())
		s, err := m.view.PrepareSave()
		if err != nil {
			return m, nil
		}
		if !m.view.IsEditing() {
			m.blurInputs()
		}
		return m, m.issue(func(ctx context.Context, v *listview.View) listview.Result {
			return v.RequestUpdate(ctx, s)
		})
	case key.Matches(msg, m.keys.cancel):
		m.view.CancelEdit()
		m.blurInputs()
		return m, nil
	case key.Matches(msg, m.keys.next):
		if m.focus == focusTitle {
			m.focusOn(focusBody)
		} else {
			m.focusOn(focusTitle)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	m.view.SetDraft(m.title.Value(), m.body.Value())
	return m, cmd
}

func (m *Model) beginEdit(id int) {
	if err := m.view.BeginEdit(id); err != nil {
		return
	}
	d, _ := m.view.Draft()
	m.title.SetValue(d.Title)
	m.title.CursorEnd()
	m.body.SetValue(d.Body)
	m.body.CursorEnd()
	m.focusOn(focusTitle)
}

func (m *Model) focusOn(f focusField) {
	m.focus = f
	if f == focusTitle {
		m.body.Blur()
		m.title.Focus()
		return
	}
	m.title.Blur()
	m.body.Focus()
}

func (m *Model) blurInputs() {
	m.title.Blur()
	m.body.Blur()
	m.title.SetValue("")
	m.body.SetValue("")
	m.focus = focusTitle
}

func (m Model) View() string {
	t := ui.Current()
	editing := m.view.IsEditing()

	listHeight := m.height - 5
	if editing {
		listHeight -= 5
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if d, ok := m.view.Draft(); ok && editing {
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		form := fmt.Sprintf("Edit recipe #%d\n%s\n%s", d.ID, m.title.View(), m.body.View())
		content += "\n" + bar.Render(form)
	}
	if status := m.status(); status != "" {
		content += "\n" + status
	}
	return ui.PanelString(content)
}

func (m Model) status() string {
	t := ui.Current()
	var s string
	if m.inFlight > 0 {
		s = t.Pending.Render(fmt.Sprintf("%s syncing (%d)", t.SymBullet, m.inFlight))
	}
	if m.opts.ShowErrors {
		if err := m.view.LastError(); err != nil {
			if s != "" {
				s += "  "
			}
			s += t.Error.Render(t.SymFail + " " + err.Error())
		}
	}
	return s
}
