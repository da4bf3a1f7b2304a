package admincli

import (
	"context"
	"fmt"

	"Hyeyum_Board/internal/repository/mysql"
	"Hyeyum_Board/internal/service"

	"github.com/spf13/cobra"
)

func NewInitDBCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create tables and the default admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.RunInitDB(cmd.Context())
		},
	}
}

// RunInitDB 建表并确保默认管理员存在，重复执行无副作用
func (e *Env) RunInitDB(ctx context.Context) error {
	h, err := e.handle()
	if err != nil {
		return err
	}
	db, err := h.DB(ctx)
	if err != nil {
		return err
	}
	if err := mysql.Migrate(db); err != nil {
		return err
	}

	var opts []service.AuthOption
	if e.Config != nil {
		opts = append(opts, service.WithAdminPassword(e.Config.AdminPassword))
	}
	audit := service.NewAuditService(mysql.NewLogRepository(h), nil)
	auth := service.NewAuthService(mysql.NewUserRepository(h), audit, opts...)
	if err := auth.EnsureAdmin(ctx); err != nil {
		return err
	}

	fmt.Fprintln(e.Out, "Database initialized")
	return nil
}
