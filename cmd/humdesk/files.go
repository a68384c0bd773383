package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fwojciec/humdesk"
	bt "github.com/fwojciec/humdesk/bubbletea"
	"github.com/fwojciec/humdesk/fs"
	"github.com/spf13/cobra"
)

func newFilesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage stored documents",
	}

	var out string
	download := &cobra.Command{
		Use:   "download <name>",
		Short: "Download a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.client.DownloadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer body.Close()
			path := out
			if path == "" {
				path = filepath.Base(args[0])
			}
			n, err := a.writeFile(path, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "Wrote %s (%s)\n", path, humanSize(n))
			return nil
		},
	}
	download.Flags().StringVarP(&out, "out", "O", "", "Output path, or - for stdout")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored documents",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				files, err := a.client.ListFiles(cmd.Context())
				if err != nil {
					return err
				}
				return a.printFiles(files)
			},
		},
		download,
	)
	return cmd
}

func (a *app) printFiles(files []humdesk.File) error {
	if a.json() {
		return printJSON(a.stdout, files)
	}
	tw := newTable(a.stdout)
	fmt.Fprintln(tw, "NAME\tSIZE")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, humanSize(f.Size))
	}
	return tw.Flush()
}

func newUploadCmd(a *app) *cobra.Command {
	var batch, plain bool
	cmd := &cobra.Command{
		Use:   "upload <pattern>...",
		Short: "Upload files matching the glob patterns",
		Long: `Upload files to the document store. Patterns support ** and are
expanded by humdesk, so quote them to keep the shell from expanding them.
Each file is sent in its own cancelable request with progress; --batch sends
all files in one request instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := fs.Resolve(args...)
			if err != nil {
				return err
			}
			defer files.Close()

			if batch {
				res, err := a.client.UploadFiles(cmd.Context(), files...)
				if err != nil {
					return err
				}
				return a.printFiles(res.Files)
			}
			return a.uploadEach(cmd.Context(), files, plain || !a.tty)
		},
	}
	cmd.Flags().BoolVar(&batch, "batch", false, "Send all files in one request without progress")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print progress lines instead of the progress view")
	return cmd
}

type uploadOutcome struct {
	Name  string         `json:"name"`
	State string         `json:"state"`
	Files []humdesk.File `json:"files,omitempty"`
	Error string         `json:"error,omitempty"`
}

func (a *app) uploadEach(ctx context.Context, files fs.Files, plain bool) error {
	var opts []humdesk.UploadsOption
	if plain {
		opts = append(opts, humdesk.WithProgress(a.progressPrinter()))
	}
	uploads := humdesk.NewUploads(a.client, opts...)
	started := uploads.Start(ctx, files...)
	stop := context.AfterFunc(ctx, uploads.CancelAll)
	defer stop()

	if !plain {
		if _, err := bt.Run(ctx, bt.NewUploads(uploads, a.theme)); err != nil {
			uploads.CancelAll()
			return fmt.Errorf("TUI: %w", err)
		}
	}

	outcomes := make([]uploadOutcome, len(started))
	var failed []error
	for i, u := range started {
		res, err := u.Wait(context.Background())
		outcomes[i] = uploadOutcome{Name: u.Name(), State: u.State().String(), Files: res.Files}
		if err != nil {
			outcomes[i].Error = err.Error()
			if !humdesk.IsCanceled(err) {
				failed = append(failed, err)
			}
		}
	}

	if a.json() {
		if err := printJSON(a.stdout, outcomes); err != nil {
			return err
		}
	} else {
		tw := newTable(a.stdout)
		fmt.Fprintln(tw, "NAME\tSTATE\tERROR")
		for _, o := range outcomes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Name, o.State, dash(o.Error))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d uploads failed: %w", len(failed), len(started), errors.Join(failed...))
	}
	return nil
}

// progressPrinter reports each upload on stderr at every quarter.
func (a *app) progressPrinter() func(name string, fraction float64) {
	var mu sync.Mutex
	last := make(map[string]int)
	return func(name string, fraction float64) {
		step := int(fraction * 4)
		mu.Lock()
		defer mu.Unlock()
		if step <= last[name] {
			return
		}
		last[name] = step
		fmt.Fprintf(a.stderr, "%s %3.0f%%\n", name, fraction*100)
	}
}
