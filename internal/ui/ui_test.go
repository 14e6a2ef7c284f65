package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/recipes/internal/model"
)

func init() {
	SetColorForcing(false, true)
}

func TestSetColorForcing(t *testing.T) {
	defer SetColorForcing(false, true)

	SetColorForcing(true, false)
	assert.Equal(t, termenv.ANSI256, lipgloss.ColorProfile())
	assert.Contains(t, Current().Title.Render("x"), "\x1b[")

	SetColorForcing(true, true)
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile(), "disable wins")

	SetColorForcing(false, false)
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile(), "no override keeps the profile")
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("classic")

	SetTheme("NEON")
	assert.Equal(t, "neon", Current().Name)
	SetTheme("mono")
	assert.Equal(t, "mono", Current().Name)
	assert.Equal(t, "ok", Current().SymOK)
	SetTheme("unknown")
	assert.Equal(t, "classic", Current().Name)
}

func TestOKAndFail(t *testing.T) {
	var out bytes.Buffer
	OK(&out, "created")
	Fail(&out, "boom")
	assert.Equal(t, "✔ created\n✖ boom\n", out.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmn", 10))
	assert.Equal(t, "ääää...", Truncate("äääääääää", 7))
}

func TestPanel(t *testing.T) {
	var out bytes.Buffer
	Panel(&out, []string{"one", "two"})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "one")
	assert.Contains(t, lines[2], "two")
}

func TestRecipeLines(t *testing.T) {
	assert.Equal(t, []string{"no recipes"}, RecipeLines(nil))

	lines := RecipeLines([]model.Recipe{
		{ID: 1, Title: "Soup", Body: "Boil water"},
		{ID: 2, Title: "Toast"},
	})
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "#1")
	assert.Contains(t, lines[0], "Soup")
	assert.Contains(t, lines[1], "Boil water")
	assert.Contains(t, lines[2], "Toast")
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Recipes   Total 4", Header(4))
}
