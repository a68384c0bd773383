package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/humdesk"
	bt "github.com/fwojciec/humdesk/bubbletea"
	humjson "github.com/fwojciec/humdesk/json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	var (
		convID   string
		noMemory bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			t, err := a.loadTranscript(ctx, convID)
			if err != nil {
				return err
			}

			chat := humdesk.NewChat(a.client, a.client, humdesk.WithMemory(!noMemory))
			m := bt.New(a.persisting(bt.ChatSender(chat)), &t, a.theme)
			if _, err := bt.Run(ctx, m); err != nil {
				return fmt.Errorf("TUI: %w", err)
			}
			if t.Conversation.ID != uuid.Nil {
				fmt.Fprintf(a.stderr, "Conversation %s\n", t.Conversation.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&convID, "conversation", "", "Conversation ID to continue")
	cmd.Flags().BoolVar(&noMemory, "no-memory", false, "Do not use the server's long-term memory")
	return cmd
}

func newAskCmd(a *app) *cobra.Command {
	var (
		convID   string
		noMemory bool
		noSave   bool
	)
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Stream one answer to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text := strings.Join(args, " ")
			var answer strings.Builder
			onToken := func(tok string) {
				answer.WriteString(tok)
				if a.json() {
					return
				}
				if a.tty {
					tok = bt.Sanitize(tok)
				}
				fmt.Fprint(a.stdout, tok)
			}

			if noSave {
				if err := a.client.Complete(ctx, humdesk.CompletionRequest{Message: text}, onToken); err != nil {
					return err
				}
				return a.printAnswer(uuid.Nil, answer.String())
			}

			t, err := a.loadTranscript(ctx, convID)
			if err != nil {
				return err
			}
			chat := humdesk.NewChat(a.client, a.client, humdesk.WithMemory(!noMemory))
			send := a.persisting(bt.ChatSender(chat))
			if err := send(ctx, &t, text, onToken); err != nil {
				return err
			}
			return a.printAnswer(t.Conversation.ID, t.LastReply())
		},
	}
	cmd.Flags().StringVar(&convID, "conversation", "", "Conversation ID to continue")
	cmd.Flags().BoolVar(&noMemory, "no-memory", false, "Do not use the server's long-term memory")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Stream the answer without persisting the exchange")
	return cmd
}

func (a *app) printAnswer(id uuid.UUID, reply string) error {
	if a.json() {
		out := struct {
			ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
			Reply          string     `json:"reply"`
		}{Reply: reply}
		if id != uuid.Nil {
			out.ConversationID = &id
		}
		return printJSON(a.stdout, out)
	}
	fmt.Fprintln(a.stdout)
	if id != uuid.Nil {
		fmt.Fprintf(a.stderr, "Conversation %s\n", id)
	}
	return nil
}

// loadTranscript fetches the conversation and its messages. When the server
// cannot be reached, a transcript saved locally is used instead.
func (a *app) loadTranscript(ctx context.Context, id string) (humdesk.Transcript, error) {
	if id == "" {
		return humdesk.Transcript{}, nil
	}
	convID, err := parseID(id)
	if err != nil {
		return humdesk.Transcript{}, err
	}

	t, err := a.fetchTranscript(ctx, convID)
	if err == nil {
		return t, nil
	}
	var statusErr *humdesk.StatusError
	if errors.As(err, &statusErr) || humdesk.IsCanceled(err) || a.cfg.TranscriptDir == "" {
		return humdesk.Transcript{}, err
	}
	local, lerr := humjson.Load(humjson.Path(a.cfg.TranscriptDir, convID))
	if lerr != nil {
		return humdesk.Transcript{}, err
	}
	a.logger.Warn().Err(err).Str("conversation", convID.String()).Msg("using local transcript")
	return local, nil
}

func (a *app) fetchTranscript(ctx context.Context, id uuid.UUID) (humdesk.Transcript, error) {
	conv, err := a.client.GetConversation(ctx, id)
	if err != nil {
		return humdesk.Transcript{}, err
	}
	msgs, err := a.client.Messages(ctx, id)
	if err != nil {
		return humdesk.Transcript{}, err
	}
	conv.MessageCount = len(msgs)
	return humdesk.Transcript{Conversation: conv, Messages: msgs, UpdatedAt: conv.UpdatedAt}, nil
}

// persisting saves the transcript locally after every successful turn. A
// failed save is logged, not returned: the exchange is already stored on the
// server.
func (a *app) persisting(send bt.ChatFunc) bt.ChatFunc {
	return func(ctx context.Context, t *humdesk.Transcript, text string, onToken humdesk.TokenFunc) error {
		if err := send(ctx, t, text, onToken); err != nil {
			return err
		}
		if a.cfg.TranscriptDir == "" || t.Conversation.ID == uuid.Nil {
			return nil
		}
		path := humjson.Path(a.cfg.TranscriptDir, t.Conversation.ID)
		if err := humjson.Save(path, *t); err != nil {
			a.logger.Warn().Err(err).Str("path", path).Msg("transcript_save")
		}
		return nil
	}
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid conversation id %q: %w", s, humdesk.ErrValidation)
	}
	return id, nil
}
