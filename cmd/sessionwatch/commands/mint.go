package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/session"
	"github.com/spf13/cobra"
)

type mintOptions struct {
	subject  string
	username string
	roles    []string
	ttl      time.Duration
	save     bool
}

// MintCommand signs a development token with SIGNING_SECRET.
func MintCommand() *cobra.Command {
	opts := mintOptions{}
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign a development token",
		Long:  "Sign an HS256 token with SIGNING_SECRET and optionally save it as the stored session.",
		Example: `  # Mint a token that expires in 2 minutes and store it
  SIGNING_SECRET=dev-secret sessionwatch mint --subject u1 --ttl 2m --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfigFromFlags(cmd)
			if err != nil {
				return err
			}

			var store session.Writer
			if opts.save {
				rdb := cfg.redisClient()
				defer rdb.Close()
				store = session.NewRedisStore(rdb, cfg.SessionPrefix, cfg.SessionKey)
			}
			return runMint(cmd.Context(), cmd.OutOrStdout(), cfg, opts, store)
		},
	}

	cmd.Flags().StringVar(&opts.subject, "subject", "", "sub claim (required)")
	cmd.Flags().StringVar(&opts.username, "username", "", "username stored with the session")
	cmd.Flags().StringSliceVar(&opts.roles, "role", nil, "role claim, repeatable")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 15*time.Minute, "token lifetime")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the token as the stored session")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runMint(ctx context.Context, out io.Writer, cfg Config, opts mintOptions, store session.Writer) error {
	if cfg.SigningSecret == "" {
		return errors.New("SIGNING_SECRET is required to mint tokens")
	}
	signer, err := jwt.NewSigner(jwt.SignerConfig{
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    []byte(cfg.SigningSecret),
		Issuer:        cfg.Issuer,
	})
	if err != nil {
		return err
	}

	var extra map[string]any
	if len(opts.roles) > 0 {
		extra = map[string]any{"roles": opts.roles}
	}
	token, err := signer.Mint(opts.subject, opts.ttl, extra)
	if err != nil {
		return fmt.Errorf("mint token: %w", err)
	}

	if store != nil {
		err := store.Save(ctx, session.Session{
			Token:    token,
			UserID:   opts.subject,
			Username: opts.username,
			Roles:    opts.roles,
			IssuedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	fmt.Fprintln(out, token)
	return nil
}
