package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bundlepitch/internal/auth"
)

func tokenCmd() *cobra.Command {
	var (
		secret     string
		audience   string
		userID     string
		email      string
		subscribed bool
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a local access token for testing the API",
		Long: `Sign an HS256 access token shaped like the ones the identity provider
issues. Only useful against a server sharing the same SUPABASE_JWT_SECRET,
e.g. a local stack.

Examples:
  bundlepitch token --user 3f1c... --email me@example.com
  curl -H "Authorization: Bearer $(bundlepitch token)" localhost:8080/api/usage`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return errors.New("no signing secret: set --secret or SUPABASE_JWT_SECRET")
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive, got %v", ttl)
			}
			if userID == "" {
				userID = uuid.NewString()
			}

			tok, err := auth.IssueToken(secret, audience, userID, email, subscribed, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	aud := os.Getenv("SUPABASE_JWT_AUDIENCE")
	if aud == "" {
		aud = "authenticated"
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("SUPABASE_JWT_SECRET"), "HS256 signing secret")
	cmd.Flags().StringVar(&audience, "aud", aud, "audience claim")
	cmd.Flags().StringVar(&userID, "user", "", "subject (user id), random when empty")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().BoolVar(&subscribed, "subscribed", false, "set user_metadata.is_subscribed")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
