package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BaSui01/genbridge/internal/store"
	"github.com/BaSui01/genbridge/types"
)

// =============================================================================
// 📋 jobs
// =============================================================================

var errNoDatabase = errors.New("database is not enabled (set database.enabled or GENBRIDGE_DATABASE_ENABLED)")

func newJobsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "jobs", Short: "Inspect the job ledger"}

	var provider string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.store == nil {
				return errNoDatabase
			}
			rows, err := a.store.ListJobs(cmd.Context(), provider, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPROVIDER\tKIND\tSTATUS\tCREATED\tPROMPT")
			for _, j := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					j.ID, j.Provider, j.Kind, j.Status, j.CreatedAt.Format(time.RFC3339), truncate(j.Prompt, 40))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&provider, "provider", "", "only jobs from this API (e.g. thirdparty, firefly-video)")
	list.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of jobs (0 for all)")

	get := &cobra.Command{
		Use:   "get <job-id>",
		Short: "Show one job with its output URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return errNoDatabase
			}
			job, err := a.store.GetJob(cmd.Context(), args[0])
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.Errorf(types.ErrInvalidRequest, "job %q not found", args[0]).WithCause(err)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), jobView{Job: job, URLs: job.URLs()})
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

type jobView struct {
	*store.Job
	URLs []string `json:"outputUrls,omitempty"`
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
