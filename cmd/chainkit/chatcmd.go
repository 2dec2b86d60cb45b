package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/germanamz/chainkit/pkg/chats/chat"
	"github.com/germanamz/chainkit/pkg/chats/message"
	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/modeladapter/usage"
)

func (a *app) chatCmd() *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the model, keeping the conversation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := a.completer()
			if err != nil {
				return err
			}

			history := chat.New()
			if system != "" {
				history.Append(message.System(system))
			}

			return chatLoop(cmd.Context(), model, history, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "system message sent before the conversation")

	return cmd
}

// chatLoop reads user input line by line, sends the whole history to model
// and appends the reply. A failed call drops the unanswered user message.
func chatLoop(ctx context.Context, model modeladapter.Completer, history *chat.Chat, in io.Reader, out, errOut io.Writer) error {
	var total usage.TokenCount

	interactive := isTerminal(in)
	if interactive {
		fmt.Fprintf(out, "%s chat. Type %s for commands, %s to exit.\n\n",
			titleStyle.Render("chainkit"), dimStyle.Render("/help"), dimStyle.Render("/quit"))
	}

	sc := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, userPrefixStyle.Render("you>")+" ")
		}

		if !sc.Scan() {
			return sc.Err()
		}

		input := strings.TrimSpace(sc.Text())
		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			printChatHelp(out)
			continue
		case "/reset":
			history.Reset()
			total = usage.TokenCount{}
			fmt.Fprintln(out, dimStyle.Render("history cleared"))
			continue
		}

		n := history.Len()
		history.Append(message.User(input))

		resp, err := waitFor(ctx, errOut, "", func(ctx context.Context) (modeladapter.Response, error) {
			return model.Complete(ctx, history.Messages())
		})
		if err != nil {
			history.Truncate(n)
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintln(errOut, errorBlockStyle.Render("error: "+err.Error()))
			continue
		}

		history.Append(resp.Message())
		total = total.Add(resp.Raw.Usage)

		fmt.Fprintln(out, answerPrefixStyle.Render("ai>")+" "+renderMarkdown(out, resp.Text()))
		fmt.Fprintln(out, statusStyle.Render(fmt.Sprintf("tokens this turn=%d total=%d", resp.Raw.Usage.Total(), total.Total())))
	}
}

func printChatHelp(w io.Writer) {
	fmt.Fprintln(w, dimStyle.Render(`/help   show this help
/reset  clear the conversation, keeping the system message
/quit   exit`))
}
