package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/agentflow/internal/archive"
	"github.com/dusk-indust/agentflow/internal/export"
)

func newRunsCmd(a *app) *cobra.Command {
	var (
		limit int
		query string
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived research runs, newest first",
		Long: "Lists runs kept in the configured archive. Only the kuzu backend keeps\n" +
			"runs across processes; with the default memory backend the CLI does not\n" +
			"archive runs and this list is always empty.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !a.persistentArchive() {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived runs: "+errMemoryArchive.Error()+".")
				return nil
			}
			store, err := a.archive(ctx)
			if err != nil {
				return err
			}

			var runs []archive.Run
			if query != "" {
				runs, err = store.FindByTopic(ctx, query)
				if err == nil && limit > 0 && len(runs) > limit {
					runs = runs[:limit]
				}
			} else {
				runs, err = store.ListRuns(ctx, limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No archived runs.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tWORDS\tTOPIC\tFILE")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.WordCount, r.Topic, export.ReportFilename(r.Topic))
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list (0 for all)")
	f.StringVarP(&query, "topic", "t", "", "only runs whose topic contains this text")
	return cmd
}
