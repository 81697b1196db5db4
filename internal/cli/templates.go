package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"aiinterviewer/internal/app"
)

func newTemplatesCmd(opts *options) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List stored templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			templates, err := a.TemplateService.List(ctx, owner)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTOPIC\tQUESTIONS\tMAX TURNS\tBUILT-IN")
			for _, t := range templates {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%v\n", t.ID, t.Topic, len(t.StarterQuestions), t.MaxTurns, t.BuiltIn)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "include templates owned by this researcher")
	return cmd
}
