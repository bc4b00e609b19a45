package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/banditsim/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		database string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored batch summaries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				database = a.cfg.Output.Database
			}
			if database == "" {
				return errors.New("history: no database (use --db or output.database)")
			}
			s, err := store.Open(database)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			batches, err := s.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tPOLICY\tRUNS\tTRIALS\tSEED\tMEAN REGRET\tSTDDEV")
			for _, b := range batches {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%.5f\t%.5f\n",
					b.ID, b.CreatedAt.Format("2006-01-02 15:04:05"), b.Policy, b.Runs, b.Trials, b.Seed, b.MeanRegret, b.StdDevRegret)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&database, "db", "", "SQLite database written by batch --db")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of batches (0 for all)")
	return cmd
}
