package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/service"
	"github.com/diecastgarage/storefront/pkg/logger"
)

// AdminCreateOptions holds flags for admin create.
type AdminCreateOptions struct {
	*RootOptions
	Name     string
	Email    string
	Password string
}

// NewAdminCommand groups back-office bootstrap commands.
func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator bootstrap",
	}
	cmd.AddCommand(newAdminCreateCommand(rootOpts))
	return cmd
}

func newAdminCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdminCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		Long: `Register an account and grant it the admin role. When the email is
already registered the existing account is promoted instead.

Example:
  storefront admin create --name "Shop Owner" --email owner@example.com --password s3cret!`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password, at least 6 characters (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runAdminCreate(cmd *cobra.Command, opts *AdminCreateOptions) error {
	cfg := opts.config()
	ctx := cmdContext(cmd)

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open backends", err)
	}
	defer b.Close()

	auth, err := newAuthService(cfg, b)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	users := service.NewUserService(b.users, logger.Component("users"))

	userID, err := createOrFindAccount(ctx, auth, b, opts)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to create account", err)
	}
	if err := users.Promote(ctx, domain.SystemActor, userID); err != nil {
		return WrapExitError(ExitFailure, "failed to grant admin role", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "admin ready: %s (%s)\n", domain.NormalizeEmail(opts.Email), userID)
	return nil
}

func createOrFindAccount(ctx context.Context, auth *service.AuthService, b *backends, opts *AdminCreateOptions) (string, error) {
	user, err := auth.Register(ctx, opts.Name, opts.Email, opts.Password)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, domain.ErrEmailInUse) {
		return "", err
	}

	cred, err := b.credentials.FindByEmail(ctx, domain.NormalizeEmail(opts.Email))
	if err != nil {
		return "", err
	}
	log := logger.Get()
	log.Info().Str("user_id", cred.UserID).Msg("email already registered, promoting existing account")
	return cred.UserID, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
