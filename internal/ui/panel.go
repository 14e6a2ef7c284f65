package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/recipes/internal/model"
)

const maxLineWidth = 80

// PanelString frames inner with the current theme's border.
func PanelString(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel writes lines inside a framed box.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelString(strings.Join(lines, "\n")))
}

// Truncate shortens s to at most n runes, ending in "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Header renders the list title with its count.
func Header(total int) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d", t.Title.Render("Recipes"), t.Accent.Render("Total"), total)
}

// RecipeLines renders one entry per recipe for the plain list.
func RecipeLines(recipes []model.Recipe) []string {
	t := Current()
	if len(recipes) == 0 {
		return []string{t.Muted.Render("no recipes")}
	}
	out := make([]string, 0, len(recipes)*2)
	for _, r := range recipes {
		id := t.Muted.Render(fmt.Sprintf("#%-4d", r.ID))
		out = append(out, fmt.Sprintf("%s %s", id, t.Title.Render(Truncate(r.Title, maxLineWidth))))
		if r.Body != "" {
			out = append(out, "      "+t.Muted.Render(Truncate(r.Body, maxLineWidth)))
		}
	}
	return out
}
