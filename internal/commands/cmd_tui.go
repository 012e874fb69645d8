package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/core/config"
	"github.com/hay-kot/jtl/internal/core/eventloop"
	"github.com/hay-kot/jtl/internal/core/styles"
	"github.com/hay-kot/jtl/internal/jtl"
	"github.com/hay-kot/jtl/internal/presenter"
	"github.com/hay-kot/jtl/internal/printer"
	"github.com/hay-kot/jtl/internal/tui"
	"github.com/hay-kot/jtl/internal/worklog"
)

const sweepInterval = 5 * time.Minute

var (
	_ presenter.App    = (*worklog.Service)(nil)
	_ presenter.Config = (*config.Config)(nil)
	_ ActivityView     = (*presenter.Presenter)(nil)
	_ ActivityFeed     = (*worklog.Service)(nil)
)

type TuiCmd struct {
	flags *Flags
	deps  *Deps
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, deps *Deps) *TuiCmd {
	return &TuiCmd{flags: flags, deps: deps}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	app, err := cmd.deps.App(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The alternate screen owns the terminal until the program exits.
	out, held := printer.NewDeferred()
	defer func() { _ = held.Flush(os.Stdout) }()
	go jtl.Sweep(ctx, app.KV, sweepInterval)

	queue := eventloop.NewQueue()
	svc := app.Worklog

	var p *presenter.Presenter
	model := tui.New(tui.Options{
		Queue:  queue,
		OnTick: func() { checkNewDay(ctx, svc, p) },
	})
	p = presenter.New(model, svc, app.Config, queue, presenter.Options{
		Debounce: app.Config.Tracking.Debounce,
	})
	model.SetPresenter(p)

	queue.Post(func() {
		startActivityFeed(ctx, p, svc, queue.Post)
		checkNewDay(ctx, svc, p)
	})

	watcher, err := config.Watch(cmd.flags.ConfigPath, app.Config.DataDir,
		func(cfg *config.Config) {
			queue.Post(func() {
				styles.SetThemeByName(cfg.TUI.Theme)
				p.ConfigChanged(cfg)
			})
		},
		func(err error) {
			log.Warn().Err(err).Msg("config reload failed")
			out.Warnf("config reload failed: %v", err)
		},
	)
	if err != nil {
		log.Warn().Err(err).Msg("config hot reload disabled")
		out.Warnf("config hot reload disabled: %v", err)
	} else {
		defer func() { _ = watcher.Close() }()
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	out.Infof("Logged today: %s", svc.DayGrandTotalString())
	return nil
}

// ActivityView is the part of the presenter the activity feed drives.
type ActivityView interface {
	Init(ctx context.Context) error
	AddActivityLog(e activity.Entry, animate bool)
	RemoveActivityLog(e activity.Entry)
}

// ActivityFeed publishes logged and trimmed activity entries.
type ActivityFeed interface {
	Subscribe(fn func(activity.Entry))
	SubscribeRemoved(fn func(activity.Entry))
}

// startActivityFeed replays the stored history into view and only then
// subscribes to live entries, so an entry is never both replayed and
// prepended. It must run on the loop; post hands callbacks from other
// goroutines back to it.
func startActivityFeed(ctx context.Context, view ActivityView, feed ActivityFeed, post func(func())) {
	if err := view.Init(ctx); err != nil {
		log.Error().Err(err).Msg("failed to load activity history")
	}

	// Entries can be logged from submissions running off the loop.
	feed.Subscribe(func(e activity.Entry) {
		post(func() { view.AddActivityLog(e, true) })
	})
	feed.SubscribeRemoved(func(e activity.Entry) {
		post(func() { view.RemoveActivityLog(e) })
	})
}

// checkNewDay rolls the day total over at midnight and asks whether the
// logged total should go with it.
func checkNewDay(ctx context.Context, svc *worklog.Service, p *presenter.Presenter) {
	newDay, err := svc.NewDay(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to roll over day total")
		return
	}
	if !newDay {
		return
	}
	p.UpdateDayGrandTotal("")
	p.ConfirmLoggedTimeReset()
}
