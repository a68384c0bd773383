package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/humdesk"
	humjson "github.com/fwojciec/humdesk/json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newConversationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "Manage conversations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List conversations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				convs, err := a.client.ListConversations(cmd.Context())
				if err != nil {
					return err
				}
				if a.json() {
					return printJSON(a.stdout, convs)
				}
				tw := newTable(a.stdout)
				fmt.Fprintln(tw, "ID\tTITLE\tMESSAGES\tUPDATED\tARCHIVED")
				for _, c := range convs {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%t\n", c.ID, dash(c.Title), c.MessageCount, formatTime(c.UpdatedAt), c.Archived)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "create [title]",
			Short: "Create a conversation",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var title string
				if len(args) == 1 {
					title = args[0]
				}
				conv, err := a.client.CreateConversation(cmd.Context(), title)
				if err != nil {
					return err
				}
				if a.json() {
					return printJSON(a.stdout, conv)
				}
				fmt.Fprintln(a.stdout, conv.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print a conversation's messages",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.loadTranscript(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a.json() {
					data, err := humjson.MarshalTranscript(t)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(a.stdout, string(data))
					return err
				}
				return writeTranscript(a.stdout, t)
			},
		},
		&cobra.Command{
			Use:   "rename <id> <title>",
			Short: "Rename a conversation",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return a.client.RenameConversation(cmd.Context(), id, args[1])
			},
		},
		&cobra.Command{
			Use:   "archive <id>",
			Short: "Archive a conversation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return a.client.ArchiveConversation(cmd.Context(), id)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a conversation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return a.client.DeleteConversation(cmd.Context(), id)
			},
		},
		newExportCmd(a),
	)
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a conversation as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := humdesk.ParseExportFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("conversation-%s.%s", id, f)
			}
			body, err := a.client.ExportConversation(cmd.Context(), id, f)
			if errors.Is(err, humdesk.ErrValidation) || humdesk.IsCanceled(err) {
				return err
			}
			if err != nil {
				return a.exportPrintable(cmd.Context(), id, out, err)
			}
			defer body.Close()
			n, err := a.writeFile(out, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "Wrote %s (%s)\n", out, humanSize(n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "Export format: pdf, docx, xlsx")
	cmd.Flags().StringVarP(&out, "out", "O", "", "Output path, or - for stdout")
	return cmd
}

// exportPrintable writes the conversation as plain markdown when the server
// cannot render the requested document. The file keeps the requested name
// with a .md extension.
func (a *app) exportPrintable(ctx context.Context, id uuid.UUID, out string, cause error) error {
	t, err := a.fetchTranscript(ctx, id)
	if err != nil {
		return fmt.Errorf("export: %w", errors.Join(cause, err))
	}
	if out != "-" {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".md"
	}
	fmt.Fprintf(a.stderr, "Export failed: %v\nWriting a printable copy instead.\n", cause)
	a.logger.Warn().Err(cause).Str("conversation", id.String()).Msg("export_fallback")

	var buf bytes.Buffer
	if err := writeTranscript(&buf, t); err != nil {
		return err
	}
	n, err := a.writeFile(out, &buf)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "Wrote %s (%s)\n", out, humanSize(n))
	return nil
}

// writeTranscript prints t as markdown: the title, then each message under
// its role and time.
func writeTranscript(w io.Writer, t humdesk.Transcript) error {
	if _, err := fmt.Fprintf(w, "# %s\n", dash(t.Conversation.Title)); err != nil {
		return err
	}
	for _, m := range t.Messages {
		if _, err := fmt.Fprintf(w, "\n[%s] %s\n%s\n", m.Role, formatTime(m.CreatedAt), strings.TrimSpace(m.Content)); err != nil {
			return err
		}
	}
	return nil
}

// writeFile copies r to path, or to stdout when path is "-".
func (a *app) writeFile(path string, r io.Reader) (int64, error) {
	if path == "-" {
		return io.Copy(a.stdout, r)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
