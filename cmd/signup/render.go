package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/render"
	"github.com/vango-dev/signup/pkg/signup"
)

func renderCmd() *cobra.Command {
	var (
		registered bool
		pretty     bool
		title      string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the form page to stdout",
		Long: `Render the page for a fresh session and print it. With --registered
the session is submitted first, so the confirmation is printed instead.

Examples:
  signup render
  signup render --registered --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
			sess := signup.NewSession(signup.WithLogger(quiet))
			if registered {
				sess.Submit()
			}

			renderer := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			err := renderer.RenderPage(cmd.OutOrStdout(), render.PageData{
				Body:         signup.View(sess),
				Title:        title,
				ClientScript: "/live.js",
				LiveURL:      "/live",
			})
			if err != nil {
				return errors.New("E300").WithDetail(err.Error()).Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&registered, "registered", false, "Render the confirmation view")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the HTML")
	cmd.Flags().StringVar(&title, "title", "Sign up", "Page title")

	return cmd
}
