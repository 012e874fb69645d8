package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/core/styles"
	"github.com/hay-kot/jtl/internal/presenter"
	"github.com/hay-kot/jtl/internal/printer"
)

type HistoryCmd struct {
	deps  *Deps
	limit int
	level string
	yes   bool
}

// NewHistoryCmd creates the activity history command.
func NewHistoryCmd(deps *Deps) *HistoryCmd {
	return &HistoryCmd{deps: deps}
}

// Register adds the history command to the application.
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Print the activity log, newest first",
		UsageText: "jtl history [options]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of entries to print (0 = all)",
				Value:       50,
				Destination: &cmd.limit,
			},
			&cli.StringFlag{
				Name:        "level",
				Usage:       "only print entries of this level (INFO, WARN, ERROR)",
				Destination: &cmd.level,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Delete every activity entry",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "do not ask for confirmation",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.clear,
			},
		},
	})
	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	app, err := cmd.deps.App(ctx)
	if err != nil {
		return err
	}

	entries, err := app.Activity.List(ctx)
	if err != nil {
		return fmt.Errorf("list activity: %w", err)
	}

	w := c.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	printHistory(w, filterEntries(entries, parseLevel(cmd.level), cmd.limit), isTerminal(w))
	return nil
}

func (cmd *HistoryCmd) clear(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if !cmd.yes {
		var confirm bool
		err := huh.NewConfirm().
			Title("Delete the whole activity log?").
			Value(&confirm).
			Run()
		if err != nil {
			return err
		}
		if !confirm {
			p.Infof("Nothing deleted")
			return nil
		}
	}

	app, err := cmd.deps.App(ctx)
	if err != nil {
		return err
	}
	if err := app.Activity.Clear(ctx); err != nil {
		return fmt.Errorf("clear activity: %w", err)
	}
	p.Successf("Activity log cleared")
	return nil
}

// parseLevel accepts a level flag in any case; stored levels are upper case.
func parseLevel(s string) activity.Level {
	return activity.Level(strings.ToUpper(strings.TrimSpace(s)))
}

// filterEntries keeps entries of level (all when empty), up to limit.
func filterEntries(entries []activity.Entry, level activity.Level, limit int) []activity.Entry {
	out := make([]activity.Entry, 0, len(entries))
	for _, e := range entries {
		if level != "" && e.Level.OrDefault() != level {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func printHistory(w io.Writer, entries []activity.Entry, colour bool) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No activity yet")
		return
	}

	for _, e := range entries {
		b := presenter.RenderLogBlock(e)
		ts, text := b.Timestamp, b.Text
		if colour {
			ts = styles.TimestampStyle.Render(ts)
			text = lipgloss.NewStyle().Foreground(lipgloss.Color(presenter.LevelColour(b.Level))).Render(text)
		}
		_, _ = fmt.Fprintf(w, "%s  %s\n", ts, text)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
