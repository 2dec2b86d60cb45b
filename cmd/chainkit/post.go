package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/germanamz/chainkit/pkg/postgen"
)

var errPostFailed = errors.New("post generation failed")

func (a *app) postCmd() *cobra.Command {
	var platform, brief string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Generate a short social media post",
		Long: `Generate a short social media post for a platform from a brief of at most
100 characters. Without --brief the platform and brief are asked for in an
interactive form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := a.completer()
			if err != nil {
				return err
			}

			p, err := postgen.ParsePlatform(platform)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("brief") {
				if !isTerminal(cmd.InOrStdin()) {
					return errors.New("--brief is required when not running in a terminal")
				}
				if p, brief, err = askPost(p); err != nil {
					return err
				}
			}

			gen := &postgen.Generator{Model: model, Middlewares: a.middlewares()}
			form := postgen.NewForm(gen, a.log)
			form.OnChange = func(s postgen.Snapshot) {
				a.log.Debug("post form", "state", s.State, "platform", s.Platform, "brief", truncate(s.Brief, 40))
			}
			form.SetPlatform(p)
			form.SetBrief(brief)

			label := fmt.Sprintf("Writing a %s post about %q...", p.Label(), truncate(form.Snapshot().Brief, 40))
			snap, _ := waitFor(cmd.Context(), cmd.ErrOrStderr(), label, func(ctx context.Context) (postgen.Snapshot, error) {
				return form.Submit(ctx), nil
			})

			printPost(cmd.OutOrStdout(), snap)

			if snap.State != postgen.Succeeded {
				return errPostFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", string(postgen.LinkedIn), "target platform (linkedin, facebook, instagram, twitter)")
	cmd.Flags().StringVar(&brief, "brief", "", "what the post is about (max 100 characters)")

	return cmd
}

// askPost shows the post form: a platform select and a brief limited to
// postgen.MaxBriefLength characters.
func askPost(initial postgen.Platform) (postgen.Platform, string, error) {
	platforms := postgen.Platforms()
	opts := make([]huh.Option[postgen.Platform], len(platforms))
	for i, p := range platforms {
		opts[i] = huh.NewOption(p.Label(), p)
	}

	selected := initial
	var brief string

	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[postgen.Platform]().
			Title("Platform").
			Options(opts...).
			Value(&selected),
		huh.NewText().
			Title("Brief").
			Description("What should the post be about?").
			CharLimit(postgen.MaxBriefLength).
			Validate(requireText).
			Value(&brief),
	)).Run()
	if err != nil {
		return "", "", err
	}

	return selected, brief, nil
}

func requireText(s string) error {
	if s == "" {
		return errors.New("brief is required")
	}
	return nil
}

func printPost(w io.Writer, s postgen.Snapshot) {
	if s.State != postgen.Succeeded {
		fmt.Fprintln(w, errorBlockStyle.Render(s.Text))
		return
	}

	fmt.Fprintln(w, titleStyle.Render(s.Platform.Label()+" post"))
	fmt.Fprintln(w, postBlockStyle.Render(renderMarkdown(w, s.Text)))
}
