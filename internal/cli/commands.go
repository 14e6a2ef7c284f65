package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/recipes/internal/errors"
	"github.com/Makepad-fr/recipes/internal/export"
	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/tui"
	"github.com/Makepad-fr/recipes/internal/ui"
)

type listFlags struct {
	plain  bool
	format string
}

func addListFlags(cmd *cobra.Command, f *listFlags) {
	cmd.Flags().BoolVar(&f.plain, "plain", false, "print the list instead of opening the interactive view")
	cmd.Flags().StringVar(&f.format, "format", "", "print the list as json or yaml")
}

func newListCommand(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show recipes (interactive unless --plain or --format)",
		Args:    exactArgs(0, "recipes ls [--plain] [--format json|yaml]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, f)
		},
	}
	addListFlags(cmd, &f)
	return cmd
}

func (a *app) runList(cmd *cobra.Command, f listFlags) error {
	var format export.Format
	if f.format != "" {
		var err error
		if format, err = export.ParseFormat(f.format); err != nil {
			return usageErrorf("ls: %v", err)
		}
	}
	interactive := !f.plain && format == ""

	closeLog, err := a.setupLogging(cmd.ErrOrStderr(), interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	view := a.newView()
	if interactive {
		if err := tui.Run(cmd.Context(), view, tui.Options{ShowErrors: a.cfg.ShowErrors}); err != nil {
			return failure("tui", err)
		}
		return nil
	}

	if err := view.FetchAll(cmd.Context()); err != nil {
		return failure("load", err)
	}
	if format != "" {
		if err := export.Write(cmd.OutOrStdout(), view.Recipes(), format); err != nil {
			return failure("ls", err)
		}
		return nil
	}

	lines := []string{ui.Header(view.Len()), ""}
	lines = append(lines, ui.RecipeLines(view.Recipes())...)
	lines = append(lines, "", ui.Current().Muted.Render("Tip: edit with `recipes edit <id> --title \"...\"`"))
	ui.Panel(cmd.OutOrStdout(), lines)
	return nil
}

func newAddCommand(a *app) *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recipe (placeholder text unless --title/--body are given)",
		Args:  exactArgs(0, "recipes add [--title T] [--body B]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return usageErrorf("add: empty title")
			}
			closeLog, err := a.setupLogging(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer closeLog()

			view := a.newView()
			r := model.Recipe{ID: model.UnsavedID, Title: title, Body: body}
			if err := view.CreateRecipe(cmd.Context(), r); err != nil {
				return failure("add", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("created (%d recipes)", view.Len()))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", model.PlaceholderTitle, "recipe title")
	cmd.Flags().StringVar(&body, "body", model.PlaceholderBody, "recipe description")
	return cmd
}

func newEditCommand(a *app) *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title and/or body of a recipe",
		Args:  exactArgs(1, "recipes edit <id> [--title T] [--body B]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("edit", args[0])
			if err != nil {
				return err
			}
			titleSet, bodySet := cmd.Flags().Changed("title"), cmd.Flags().Changed("body")
			if !titleSet && !bodySet {
				return usageErrorf("edit: nothing to change (use --title or --body)")
			}
			closeLog, err := a.setupLogging(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer closeLog()

			view := a.newView()
			if err := view.FetchAll(cmd.Context()); err != nil {
				return failure("load", err)
			}
			if err := view.BeginEdit(id); err != nil {
				return notListed(cmd, "edit", id, err)
			}
			if titleSet {
				view.SetDraftTitle(title)
			}
			if bodySet {
				view.SetDraftBody(body)
			}
			if err := view.SaveEdit(cmd.Context()); err != nil {
				return failure("edit", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("updated #%d", id))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new description")
	return cmd
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a recipe",
		Args:    exactArgs(1, "recipes rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			closeLog, err := a.setupLogging(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer closeLog()

			view := a.newView()
			if err := view.DeleteOne(cmd.Context(), id); err != nil {
				return failure("rm", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("removed #%d (%d left)", id, view.Len()))
			return nil
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current list to a JSON or YAML file",
		Args:  exactArgs(0, "recipes export --out FILE [--format json|yaml]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return usageErrorf("export: --out is required")
			}
			f := export.FormatFromPath(out)
			if format != "" {
				var err error
				if f, err = export.ParseFormat(format); err != nil {
					return usageErrorf("export: %v", err)
				}
			}
			closeLog, err := a.setupLogging(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer closeLog()

			view := a.newView()
			if err := view.FetchAll(cmd.Context()); err != nil {
				return failure("load", err)
			}
			if out == "-" {
				if err := export.Write(cmd.OutOrStdout(), view.Recipes(), f); err != nil {
					return failure("export", err)
				}
				return nil
			}
			if err := export.WriteFile(out, view.Recipes(), f); err != nil {
				return failure("export", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("exported %d recipes to %s", view.Len(), out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination file, - for stdout")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from file extension)")
	return cmd
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("usage: %s", usage)
		}
		return nil
	}
}

func parseID(cmdName, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id == model.UnsavedID {
		return 0, usageErrorf("%s: not a recipe id: %s", cmdName, s)
	}
	return id, nil
}

func notListed(cmd *cobra.Command, cmdName string, id int, err error) error {
	if errors.CodeOf(err) == errors.ErrCodeNotFound {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Current().Muted.Render("Hint: run `recipes ls --plain` to see valid ids"))
		return &exitError{code: exitFail, msg: fmt.Sprintf("%s: no recipe with id %d", cmdName, id)}
	}
	return failure(cmdName, err)
}
