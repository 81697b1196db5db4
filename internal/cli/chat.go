package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"aiinterviewer/internal/app"
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/model"
)

const endCommand = "/end"

func newChatCmd(opts *options) *cobra.Command {
	var (
		req         model.StartInterviewRequest
		probeBudget int
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run an interview in the terminal",
		Long: `Runs one interview against the configured store, reading answers from stdin.
Type /end to stop early. Without --store the local sqlite store is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.store == "" {
				opts.cfg.Store.Backend = config.StoreSQLite
			}
			if cmd.Flags().Changed("probe-budget") {
				req.ProbeBudget = &probeBudget
			}
			ctx := cmd.Context()
			a, err := app.New(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			return runChat(cmd, a, req)
		},
	}
	cmd.Flags().StringVar(&req.TemplateID, "template", "", "template id")
	cmd.Flags().StringVar(&req.Topic, "topic", "", "ad-hoc topic when no template is given")
	cmd.Flags().StringSliceVar(&req.StarterQuestions, "question", nil, "starter question for an ad-hoc topic (repeatable)")
	cmd.Flags().IntVar(&req.MaxTurns, "max-turns", 0, "topic questions before closing")
	cmd.Flags().IntVar(&probeBudget, "probe-budget", 0, "follow-ups allowed per topic (default from policy)")
	return cmd
}

func runChat(cmd *cobra.Command, a *app.App, req model.StartInterviewRequest) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	start, err := a.InterviewService.Start(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "session %s (%s)\n\n", start.SessionID, start.Topic)
	printQuestion(out, start.Question, start.Progress, false)

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == endCommand {
			end, err := a.InterviewService.End(ctx, start.SessionID)
			if err != nil {
				return err
			}
			printSummary(out, end.Summary)
			return nil
		}

		res, err := a.InterviewService.ProcessTurn(ctx, start.SessionID, line)
		if err != nil {
			return err
		}
		if res.IsComplete {
			printSummary(out, res.Summary)
			return nil
		}
		printQuestion(out, res.Question, res.Progress, res.IsProbe)
	}
	if err := in.Err(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\ninput closed; resume or end session %s later\n", start.SessionID)
	return nil
}

func printQuestion(out io.Writer, question string, p model.Progress, probe bool) {
	tag := ""
	if probe {
		tag = " (follow-up)"
	}
	fmt.Fprintf(out, "[%d/%d]%s %s\n", p.Current, p.Total, tag, question)
}

func printSummary(out io.Writer, s *model.Summary) {
	if s == nil {
		return
	}
	fmt.Fprintln(out, "\nSummary")
	fmt.Fprintf(out, "  topic:      %s\n", s.Topic)
	fmt.Fprintf(out, "  exchanges:  %d (turns asked %d)\n", s.TotalExchanges, s.TurnsAsked)
	if s.EarlyTermination {
		fmt.Fprintf(out, "  ended early: %s\n", s.TerminationReason)
	}
	fmt.Fprintf(out, "  sentiment:  %.2f\n", s.AverageSentimentScore)
	if len(s.KeyThemes) > 0 {
		fmt.Fprintf(out, "  themes:     %s\n", strings.Join(s.KeyThemes, ", "))
	}
	for _, in := range s.Insights {
		fmt.Fprintf(out, "  - %s\n", in)
	}
	fmt.Fprintf(out, "\n%s\n", s.Narrative)
}
