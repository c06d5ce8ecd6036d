package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/session"
	"github.com/spf13/cobra"
)

// InspectCommand prints the state of a token.
func InspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [token]",
		Short: "Print the state of a token",
		Long:  "Print the lifecycle state of the given token, or of the token stored in Redis when none is given.",
		Example: `  # Inspect the stored session
  sessionwatch inspect

  # Inspect a token from the clipboard
  sessionwatch inspect eyJhbGciOi...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFromFlags(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				store := session.NewMemoryStore()
				store.SetToken(args[0])
				return runInspect(cmd.Context(), cmd.OutOrStdout(), store, cfg.WarningWindow)
			}

			rdb := cfg.redisClient()
			defer rdb.Close()
			return runInspect(cmd.Context(), cmd.OutOrStdout(), session.NewRedisStore(rdb, cfg.SessionPrefix, cfg.SessionKey), cfg.WarningWindow)
		},
	}
	return cmd
}

func runInspect(ctx context.Context, out io.Writer, store session.Store, window time.Duration) error {
	m, err := goSession.New().WithStore(store).Build()
	if err != nil {
		return err
	}
	defer m.Close()

	// Initialize only to apply the window; Close cancels the timers.
	if err := m.Initialize(ctx, goSession.Config{WarningWindow: window}); err != nil {
		return err
	}

	info := m.GetSessionInfo(ctx)
	fmt.Fprintf(out, "state:      %s\n", info.State)
	if !info.HasExpiration() {
		return nil
	}
	fmt.Fprintf(out, "expires_at: %s\n", info.ExpiresAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "remaining:  %s\n", jwt.FormatDuration(info.TimeUntilExpiration))

	token, err := store.Token(ctx)
	if err != nil {
		return nil
	}
	if claims, err := jwt.Decode(token); err == nil {
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			fmt.Fprintf(out, "subject:    %s\n", sub)
		}
	}
	return nil
}
