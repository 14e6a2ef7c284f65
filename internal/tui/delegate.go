package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/recipes/internal/listview"
	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/ui"
)

// recipeItem adapts model.Recipe to bubbles/list.Item
type recipeItem struct {
	model.Recipe
}

func (i recipeItem) FilterValue() string { return i.Title + " " + i.Body }

// recipeDelegate renders a recipe as a title line and a muted body line.
// The edited row is found by id through the view.
type recipeDelegate struct {
	view *listview.View
}

func (d recipeDelegate) Height() int                               { return 2 }
func (d recipeDelegate) Spacing() int                              { return 1 }
func (d recipeDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d recipeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(recipeItem)
	if !ok {
		return
	}
	t := ui.Current()
	width := m.Width() - 4
	if width < 10 {
		width = 10
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	title := t.Title.Render(ui.Truncate(it.Title, width))
	if d.view.IsEditingRow(it.ID) {
		title += " " + t.Editing.Render(t.SymEdit+" editing")
	}
	body := it.Body
	if body == "" {
		body = "(no description)"
	}
	fmt.Fprintf(w, "%s%s\n  %s", prefix, title, t.Muted.Render(ui.Truncate(body, width)))
}

func toItems(recipes []model.Recipe) []list.Item {
	items := make([]list.Item, 0, len(recipes))
	for _, r := range recipes {
		items = append(items, recipeItem{Recipe: r})
	}
	return items
}
