package main

import (
	"fmt"

	"github.com/fwojciec/humdesk"
	"github.com/spf13/cobra"
)

func newHumdataCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "humdata",
		Short: "Query crises, jobs and funding datasets",
	}
	cmd.AddCommand(newCrisesCmd(a), newJobsCmd(a), newFundingCmd(a))
	return cmd
}

func pageFlags(cmd *cobra.Command, p *humdesk.Page) {
	cmd.Flags().IntVar(&p.Limit, "limit", 0, fmt.Sprintf("Maximum results, up to %d (0 = server default)", humdesk.MaxPageLimit))
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "Results to skip")
}

func newCrisesCmd(a *app) *cobra.Command {
	var q humdesk.CrisisQuery
	cmd := &cobra.Command{
		Use:   "crises",
		Short: "List crisis reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			crises, err := a.client.Crises(cmd.Context(), q)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.stdout, crises)
			}
			tw := newTable(a.stdout)
			fmt.Fprintln(tw, "PUBLISHED\tCOUNTRY\tSOURCE\tTITLE")
			for _, c := range crises {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatTimePtr(c.PublishedAt), dash(c.Country), c.Source, c.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&q.Source, "source", "", "Source feed, e.g. reliefweb")
	cmd.Flags().StringVarP(&q.Search, "query", "q", "", "Full-text search")
	cmd.Flags().StringVar(&q.Country, "country", "", "Country name or ISO3 code")
	pageFlags(cmd, &q.Page)
	return cmd
}

func newJobsCmd(a *app) *cobra.Command {
	var q humdesk.JobQuery
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List job postings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, err := a.client.Jobs(cmd.Context(), q)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.stdout, jobs)
			}
			tw := newTable(a.stdout)
			fmt.Fprintln(tw, "DEADLINE\tORG\tLOCATION\tTITLE")
			for _, j := range jobs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatTimePtr(j.Deadline), dash(j.Org), dash(j.Location), j.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&q.Source, "source", "", "Source feed")
	cmd.Flags().StringVarP(&q.Search, "query", "q", "", "Full-text search")
	cmd.Flags().StringVar(&q.Org, "org", "", "Hiring organization")
	cmd.Flags().StringVar(&q.Country, "country", "", "Country in the job location")
	pageFlags(cmd, &q.Page)
	return cmd
}

func newFundingCmd(a *app) *cobra.Command {
	var q humdesk.FundingQuery
	cmd := &cobra.Command{
		Use:   "funding",
		Short: "List funding flows, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.client.Funding(cmd.Context(), q)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.stdout, records)
			}
			tw := newTable(a.stdout)
			fmt.Fprintln(tw, "YEAR\tCOUNTRY\tCLUSTER\tDONOR\tRECIPIENT\tAMOUNT")
			for _, r := range records {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.0f %s\n", r.Year, dash(r.Country), dash(r.Cluster), dash(r.Donor), dash(r.Recipient), r.Amount, r.Currency)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&q.Year, "year", 0, "Funding year")
	cmd.Flags().StringVar(&q.Country, "country", "", "Recipient country")
	cmd.Flags().StringVar(&q.Cluster, "cluster", "", "Humanitarian cluster, e.g. Health")
	pageFlags(cmd, &q.Page)
	return cmd
}
