package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/jtl/internal/core/issuekey"
	"github.com/hay-kot/jtl/internal/worklog"
	"github.com/hay-kot/jtl/pkg/iojson"
	"github.com/hay-kot/jtl/pkg/logutils"
	"github.com/hay-kot/jtl/pkg/randid"
)

type BatchCmd struct {
	flags *Flags
	deps  *Deps
	fr    *iojson.FileReader[BatchInput]
}

func NewBatchCmd(flags *Flags, deps *Deps) *BatchCmd {
	return &BatchCmd{
		flags: flags,
		deps:  deps,
		fr:    &iojson.FileReader[BatchInput]{},
	}
}

func (cmd *BatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "batch",
		Usage: "Log multiple worklogs from JSON input",
		UsageText: `jtl batch [options]

Read from stdin:
  echo '{"worklogs":[{"issue":"JTL-12","time_spent":"1h 30m"}]}' | jtl batch

Read from file:
  jtl batch -f worklogs.json`,
		Description: `Posts several worklogs to JIRA in one go.

Entries are logged in order. Processing stops after 3 failures and the
entries not attempted are marked as skipped. Bare issue numbers are
qualified with the default project, as in the time logging screen.

Input JSON schema:
  {
    "worklogs": [
      {
        "issue": "JTL-12",
        "time_spent": "1h 30m",
        "comment": "optional comment",
        "adjust_estimate": "auto | leave"
      }
    ]
  }

Output is JSON with a batch ID, log file path, and a result per entry.`,
		Flags:  []cli.Flag{cmd.fr.Flag()},
		Action: cmd.run,
	})

	return app
}

func (cmd *BatchCmd) run(ctx context.Context, c *cli.Command) error {
	batchID := randid.Generate(6)
	logFile := filepath.Join(filepath.Dir(cmd.flags.LogFile), "batch-"+batchID+".log")

	logger, closer, err := logutils.New(cmd.flags.LogLevel, logFile)
	if err != nil {
		return iojson.WriteError(fmt.Sprintf("setup logger: %s", err), nil)
	}
	defer closer()

	logger.Info().Str("batch_id", batchID).Msg("starting batch processing")

	input, err := cmd.fr.Read()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return iojson.WriteError(fmt.Sprintf("read input: %s", err), nil)
	}

	app, err := cmd.deps.App(ctx)
	if err != nil {
		return iojson.WriteError(err.Error(), nil)
	}

	project, _ := app.Config.DefaultProjectKey()
	rules := BatchRules{
		TimePattern:     app.Config.TimePattern(),
		IssueKeyPattern: app.Config.IssueKeyPattern(),
		DefaultProject:  project,
	}
	if err := input.Validate(rules); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		return iojson.WriteError(fmt.Sprintf("invalid input: %s", err), nil)
	}

	output := BatchOutput{
		BatchID: batchID,
		LogFile: logFile,
		Results: logBatch(ctx, app.Worklog, input.Resolved(rules), func(r BatchResult) {
			ev := logger.Info()
			if r.Status == StatusFailed {
				ev = logger.Error().Str("error", r.Error)
			}
			ev.Str("issue", r.Issue).Str("status", r.Status).Msg("worklog processed")
		}),
	}

	logger.Info().
		Int("total", len(input.Worklogs)).
		Int("logged", countByStatus(output.Results, StatusLogged)).
		Int("failed", countByStatus(output.Results, StatusFailed)).
		Int("skipped", countByStatus(output.Results, StatusSkipped)).
		Msg("batch processing complete")

	return iojson.Write(output)
}

// WorkLogger posts a single reconciled worklog.
type WorkLogger interface {
	LogWork(ctx context.Context, sub worklog.Submission) error
}

// logBatch posts subs in order until maxFailures is reached. Every entry
// gets a result; onResult sees each attempted one.
func logBatch(ctx context.Context, wl WorkLogger, subs []worklog.Submission, onResult func(BatchResult)) []BatchResult {
	results := make([]BatchResult, 0, len(subs))

	failures := 0
	for _, sub := range subs {
		if failures >= maxFailures {
			results = append(results, BatchResult{Issue: sub.IssueKey, TimeSpent: sub.TimeSpent, Status: StatusSkipped})
			continue
		}

		result := BatchResult{Issue: sub.IssueKey, TimeSpent: sub.TimeSpent, Status: StatusLogged}
		if err := wl.LogWork(ctx, sub); err != nil {
			failures++
			result.Status = StatusFailed
			result.Error = err.Error()
		}

		if onResult != nil {
			onResult(result)
		}
		results = append(results, result)
	}

	return results
}

const (
	StatusLogged  = "logged"  // StatusLogged indicates the worklog was posted.
	StatusFailed  = "failed"  // StatusFailed indicates JIRA rejected the worklog.
	StatusSkipped = "skipped" // StatusSkipped indicates the worklog was not attempted due to failure threshold.
	maxFailures   = 3         // maxFailures is the number of failures before stopping batch processing.
)

// BatchInput is the JSON input schema for batch worklogs.
type BatchInput struct {
	Worklogs []BatchWorklog `json:"worklogs"`
}

// BatchWorklog is one worklog in a batch.
type BatchWorklog struct {
	Issue          string `json:"issue"`
	TimeSpent      string `json:"time_spent"`
	Comment        string `json:"comment,omitempty"`
	AdjustEstimate string `json:"adjust_estimate,omitempty"`
}

// BatchRules carries the configured patterns entries are checked against.
type BatchRules struct {
	TimePattern     *regexp.Regexp
	IssueKeyPattern *regexp.Regexp
	DefaultProject  string
}

// Validate checks the batch input for errors using criterio.
func (b BatchInput) Validate(rules BatchRules) error {
	if len(b.Worklogs) == 0 {
		return criterio.NewFieldErrors("worklogs", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, w := range b.Worklogs {
		field := fmt.Sprintf("worklogs[%d]", i)

		if issuekey.Resolve(w.Issue, rules.IssueKeyPattern, rules.DefaultProject).Kind == issuekey.Invalid {
			errs = errs.Append(field+".issue", fmt.Errorf("%q does not appear to be a valid JIRA issue key", w.Issue))
		}

		if !rules.TimePattern.MatchString(w.TimeSpent) {
			errs = errs.Append(field+".time_spent", fmt.Errorf("%q does not appear to be a valid JIRA time phrase", w.TimeSpent))
		}

		switch w.AdjustEstimate {
		case "", "auto", "leave":
		default:
			errs = errs.Append(field+".adjust_estimate", fmt.Errorf("must be auto or leave, got %q", w.AdjustEstimate))
		}
	}

	return errs.ToError()
}

// Resolved converts validated entries into submissions, qualifying bare
// issue numbers with the default project.
func (b BatchInput) Resolved(rules BatchRules) []worklog.Submission {
	subs := make([]worklog.Submission, 0, len(b.Worklogs))
	for _, w := range b.Worklogs {
		adjust := w.AdjustEstimate
		if adjust == "" {
			adjust = "auto"
		}
		subs = append(subs, worklog.Submission{
			IssueKey:       issuekey.Resolve(w.Issue, rules.IssueKeyPattern, rules.DefaultProject).Key,
			TimeSpent:      w.TimeSpent,
			Comment:        w.Comment,
			AdjustEstimate: adjust,
		})
	}
	return subs
}

// BatchOutput is the JSON output for batch worklogs.
type BatchOutput struct {
	BatchID string        `json:"batch_id"`
	LogFile string        `json:"log_file"`
	Results []BatchResult `json:"results"`
}

// BatchResult is the outcome of one worklog.
type BatchResult struct {
	Issue     string `json:"issue"`
	TimeSpent string `json:"time_spent"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

func countByStatus(results []BatchResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}
