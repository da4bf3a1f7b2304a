package admincli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Hyeyum_Board/internal/model"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/repository/mysql"

	"github.com/spf13/cobra"
)

func NewUserCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "user",
		Long: "User-related functionality.",
	}
	cmd.AddCommand(NewAddCommand(env))
	cmd.AddCommand(NewResetPasswordCommand(env))

	return cmd
}

type AddUserOptions struct {
	Username      string
	Name          string
	Password      string
	PasswordStdin bool
	Admin         bool
}

type ResetPasswordOptions struct {
	Username      string
	Password      string
	PasswordStdin bool
}

func NewAddCommand(env *Env) *cobra.Command {
	var options AddUserOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.RunAddUser(cmd.Context(), options)
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&options.Username, "username", "u", "", "Username")
	flags.StringVarP(&options.Name, "name", "n", "", "Display name (defaults to username)")
	flags.StringVarP(&options.Password, "password", "p", "", "Password")
	flags.BoolVar(&options.PasswordStdin, "password-stdin", false, "Read password from stdin")
	flags.BoolVar(&options.Admin, "admin", false, "Grant administrator rights")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func NewResetPasswordCommand(env *Env) *cobra.Command {
	var options ResetPasswordOptions

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset password for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.RunResetPassword(cmd.Context(), options)
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&options.Username, "username", "u", "", "Username")
	flags.StringVarP(&options.Password, "password", "p", "", "Password")
	flags.BoolVar(&options.PasswordStdin, "password-stdin", false, "Read password from stdin")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func (e *Env) RunAddUser(ctx context.Context, options AddUserOptions) error {
	username := strings.TrimSpace(options.Username)
	if username == "" {
		return errors.New("username is required")
	}
	name := strings.TrimSpace(options.Name)
	if name == "" {
		name = username
	}
	password, err := e.readPassword(options.Password, options.PasswordStdin)
	if err != nil {
		return err
	}

	h, err := e.handle()
	if err != nil {
		return err
	}
	digest, err := pkg.HashPassword(password)
	if err != nil {
		return err
	}
	user := &model.User{
		Username:  username,
		Name:      name,
		Password:  digest,
		IsAdmin:   options.Admin,
		CreatedAt: model.Now(),
	}
	if err := mysql.NewUserRepository(h).Create(ctx, user); err != nil {
		if errors.Is(err, mysql.ErrDuplicate) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}

	fmt.Fprintf(e.Out, "Created user %s (id=%d)\n", user.Username, user.ID)
	return nil
}

func (e *Env) RunResetPassword(ctx context.Context, options ResetPasswordOptions) error {
	password, err := e.readPassword(options.Password, options.PasswordStdin)
	if err != nil {
		return err
	}

	h, err := e.handle()
	if err != nil {
		return err
	}
	digest, err := pkg.HashPassword(password)
	if err != nil {
		return err
	}
	if err := mysql.NewUserRepository(h).UpdatePassword(ctx, options.Username, digest); err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return fmt.Errorf("user %q not found", options.Username)
		}
		return err
	}

	fmt.Fprintf(e.Out, "Password updated for %s\n", options.Username)
	return nil
}
