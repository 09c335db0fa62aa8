package cmd

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
)

// cliSenderID addresses replies to the terminal user.
const cliSenderID = "cli"

func newAskCommand(opts *rootOptions) *cobra.Command {
	var showSQL bool

	c := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and exit",
		Example: `  eventbot ask "concerts in June"
  eventbot ask --show-sql "food events this weekend"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), opts, strings.Join(args, " "), showSQL)
		},
	}
	c.Flags().BoolVar(&showSQL, "show-sql", false, "print the generated query")
	return c
}

func runAsk(ctx context.Context, opts *rootOptions, question string, showSQL bool) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	spinner, _ := pterm.DefaultSpinner.Start("Connecting...")
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		spinner.Fail("Could not start")
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("Failed to close datastore", zap.Error(err))
		}
	}()

	spinner.UpdateText("Thinking...")
	resp, trace := a.pipeline.HandleWithTrace(ctx, models.Utterance{SenderID: cliSenderID, Message: question})
	spinner.Success(string(trace.Outcome))

	if showSQL && trace.SQL != "" {
		pterm.DefaultSection.Println("Query")
		pterm.Println(pterm.FgGray.Sprint(trace.SQL))
	}

	pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("eventbot")).
		WithPadding(1).
		Println(resp.Text)

	if len(resp.Buttons) > 0 {
		items := make([]pterm.BulletListItem, 0, len(resp.Buttons))
		for _, b := range resp.Buttons {
			items = append(items, pterm.BulletListItem{Level: 0, Text: b.Title})
		}
		if err := pterm.DefaultBulletList.WithItems(items).Render(); err != nil {
			return err
		}
	}
	return nil
}
