package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	api   string
	token string
}

func (o *rootOptions) client() *apiClient { return newAPIClient(o.api, o.token) }

// NewRootCmd builds the ferveuctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "ferveuctl",
		Short:         "Command-line client for the ferveu service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.api, "api", "a", "http://localhost:8080", "ferveu service base URL")
	root.PersistentFlags().StringVarP(&opts.token, "token", "t", os.Getenv("FERVEU_TOKEN"), "session token (env FERVEU_TOKEN)")

	root.AddCommand(
		newLoginCmd(opts),
		simpleCmd(opts, "logout", "End the active session", http.MethodPost, "/api/session/logout"),
		simpleCmd(opts, "status", "Show session state", http.MethodGet, "/api/session"),
		simpleCmd(opts, "venues", "List venues", http.MethodGet, "/api/venues"),
		simpleCmd(opts, "panel", "Show venues projected on the panel", http.MethodGet, "/api/venues/panel"),
		newCheckInCmd(opts),
		newPostCmd(opts),
		newLikeCmd(opts),
		simpleCmd(opts, "feed", "List posts, newest first", http.MethodGet, "/api/posts"),
		simpleCmd(opts, "ranking", "Show the hottest venues", http.MethodGet, "/api/ranking/venues"),
		simpleCmd(opts, "missions", "List missions", http.MethodGet, "/api/missions"),
	)
	return root
}

func requestCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func simpleCmd(opts *rootOptions, use, short, method, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			data, err := opts.client().do(ctx, method, path, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var name, email string
	var remember, tokenOnly bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in; prints the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			body := map[string]interface{}{"name": name, "email": email, "remember": remember}
			data, err := opts.client().do(ctx, http.MethodPost, "/api/session/login", body)
			if err != nil {
				return err
			}
			if tokenOnly {
				var out struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(data, &out); err != nil {
					return fmt.Errorf("decode login response: %w", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), out.Token)
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email (optional)")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the session across restarts")
	cmd.Flags().BoolVar(&tokenOnly, "token-only", false, "print only the token, e.g. for export FERVEU_TOKEN=$(...)")
	return cmd
}

func newCheckInCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <venue-id>",
		Short: "Check in at a venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			data, err := opts.client().do(ctx, http.MethodPost, "/api/venues/"+args[0]+"/checkin", nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
}

func newPostCmd(opts *rootOptions) *cobra.Command {
	var content, media string
	cmd := &cobra.Command{
		Use:   "post <venue-id>",
		Short: "Publish a post at a venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "" {
				return fmt.Errorf("--content is required")
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			body := map[string]string{"content": content}
			if media != "" {
				body["mediaUrl"] = media
			}
			data, err := opts.client().do(ctx, http.MethodPost, "/api/venues/"+args[0]+"/posts", body)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringVarP(&content, "content", "c", "", "post text")
	cmd.Flags().StringVarP(&media, "media", "m", "", "media URL")
	return cmd
}

func newLikeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			data, err := opts.client().do(ctx, http.MethodPost, "/api/posts/"+args[0]+"/like", nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
}
