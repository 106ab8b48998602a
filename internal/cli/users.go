package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/service"
	"github.com/diecastgarage/storefront/pkg/logger"
)

// UsersOptions holds flags shared by the users subcommands.
type UsersOptions struct {
	*RootOptions
	JSON bool
}

// NewUsersCommand groups account management commands.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UsersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "print JSON instead of a table")

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List accounts, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(cmd, opts, func(users *service.UserService) error {
				list, err := users.List(cmdContext(cmd))
				if err != nil {
					return err
				}
				if opts.JSON {
					return writeJSON(cmd.OutOrStdout(), list)
				}
				return writeUserTable(cmd.OutOrStdout(), list)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "stats",
		Short:         "Count accounts by role",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(cmd, opts, func(users *service.UserService) error {
				stats, err := users.Stats(cmdContext(cmd))
				if err != nil {
					return err
				}
				if opts.JSON {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "total: %d\nadmins: %d\nusers: %d\n",
					stats.TotalUsers, stats.Admins, stats.RegularUsers)
				return err
			})
		},
	})

	cmd.AddCommand(newRoleCommand(opts, "promote", "Grant the admin role", true))
	cmd.AddCommand(newRoleCommand(opts, "demote", "Revoke the admin role", false))

	return cmd
}

func newRoleCommand(opts *UsersOptions, use, short string, promote bool) *cobra.Command {
	return &cobra.Command{
		Use:           use + " <user-id>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(cmd, opts, func(users *service.UserService) error {
				ctx := cmdContext(cmd)
				var err error
				if promote {
					err = users.Promote(ctx, domain.SystemActor, args[0])
				} else {
					err = users.Demote(ctx, domain.SystemActor, args[0])
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", use+"d", args[0])
				return err
			})
		},
	}
}

func withUsers(cmd *cobra.Command, opts *UsersOptions, fn func(*service.UserService) error) error {
	b, err := openBackends(cmdContext(cmd), opts.config())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open backends", err)
	}
	defer b.Close()

	if err := fn(service.NewUserService(b.users, logger.Component("users"))); err != nil {
		return WrapExitError(ExitFailure, cmd.Name()+" failed", err)
	}
	return nil
}

func writeUserTable(w io.Writer, users []domain.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tCREATED")
	for _, u := range users {
		created := ""
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.EffectiveRole(), created)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
