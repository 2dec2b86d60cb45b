package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/germanamz/chainkit/pkg/chain"
	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/parser"
	"github.com/germanamz/chainkit/pkg/prompt"
)

const (
	defaultSystem = "You are a world class technical documentation writer."
	questionInput = "Question is {input}"
)

func (a *app) invokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <text>",
		Short: "Send text to the model as a single user message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.completer()
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			resp, err := waitFor(cmd.Context(), cmd.ErrOrStderr(), "Invoking the model...", func(ctx context.Context) (modeladapter.Response, error) {
				return modeladapter.CompleteText(ctx, model, text)
			})
			if err != nil {
				return err
			}

			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func (a *app) askCmd() *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Run a prompt template → model chain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.questionChain("ask", system)
			if err != nil {
				return err
			}

			vars := map[string]string{"input": strings.Join(args, " ")}
			resp, err := waitFor(cmd.Context(), cmd.ErrOrStderr(), "Running chain...", func(ctx context.Context) (modeladapter.Response, error) {
				return c.InvokeResponse(ctx, vars)
			})
			if err != nil {
				return err
			}

			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", defaultSystem, "system message of the template")

	return cmd
}

func (a *app) parseCmd() *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "parse <question>",
		Short: "Run a prompt template → model → string parser chain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.questionChain("parse", system)
			if err != nil {
				return err
			}

			c, err = c.Pipe(chain.ParseStage(parser.String{}))
			if err != nil {
				return err
			}

			vars := map[string]string{"input": strings.Join(args, " ")}
			text, err := waitFor(cmd.Context(), cmd.ErrOrStderr(), "Running chain...", func(ctx context.Context) (string, error) {
				return c.InvokeText(ctx, vars)
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(cmd.OutOrStdout(), text))
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", defaultSystem, "system message of the template")

	return cmd
}

// questionChain builds the template → model chain shared by ask and parse.
func (a *app) questionChain(name, system string) (*chain.Chain, error) {
	model, err := a.completer()
	if err != nil {
		return nil, err
	}

	tmpl, err := prompt.FromMessages(
		[2]string{"system", system},
		[2]string{"user", questionInput},
	)
	if err != nil {
		return nil, err
	}

	c, err := chain.New(chain.PromptStage(tmpl), chain.ModelStage(model))
	if err != nil {
		return nil, err
	}

	return c.Named(name).With(a.middlewares()...), nil
}

// printResponse writes the content followed by a dim metadata line.
func printResponse(w io.Writer, resp modeladapter.Response) {
	if resp.HasContent() {
		fmt.Fprintln(w, renderMarkdown(w, resp.Text()))
	} else {
		fmt.Fprintln(w, dimStyle.Render("(no content)"))
	}

	raw := resp.Raw
	meta := fmt.Sprintf("model=%s finish=%s tokens in=%d out=%d total=%d",
		raw.Model, raw.FinishReason, raw.Usage.InputTokens, raw.Usage.OutputTokens, raw.Usage.Total())
	if rl := raw.RateLimit; rl != nil && rl.RemainingRequests >= 0 {
		meta += fmt.Sprintf(" remaining_requests=%d", rl.RemainingRequests)
	}

	fmt.Fprintln(w, statusStyle.Render(meta))
}
