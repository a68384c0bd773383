package main

import (
	"fmt"

	"github.com/fwojciec/humdesk"
	"github.com/spf13/cobra"
)

func newDriveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Browse and import from Google Drive or OneDrive",
	}

	var query string
	list := &cobra.Command{
		Use:   "list <provider>",
		Short: "List or search the drive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := humdesk.ParseDriveProvider(args[0])
			if err != nil {
				return err
			}
			items, err := a.client.ListDrive(cmd.Context(), p, query)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.stdout, items)
			}
			tw := newTable(a.stdout)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Name, dash(it.MimeType), humanSize(it.Size))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "Search query")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "login-url <provider>",
			Short: "Print the authorization URL to open in a browser",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				p, err := humdesk.ParseDriveProvider(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, a.client.LoginURL(p))
				return nil
			},
		},
		list,
		&cobra.Command{
			Use:   "import <provider> <id>",
			Short: "Copy a drive item into the document store",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := humdesk.ParseDriveProvider(args[0])
				if err != nil {
					return err
				}
				f, err := a.client.ImportDrive(cmd.Context(), p, args[1])
				if err != nil {
					return err
				}
				if a.json() {
					return printJSON(a.stdout, f)
				}
				fmt.Fprintf(a.stdout, "Imported %s\n", f.Name)
				return nil
			},
		},
	)
	return cmd
}
