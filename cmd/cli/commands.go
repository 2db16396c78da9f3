package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-BotAdminService/internal/config"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/internal/infra/storage/migrations"
	userRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/user"
	"github.com/m04kA/SMC-BotAdminService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/password"
)

// adminPasswordEnv пароль администратора, если не передан флагом
const adminPasswordEnv = "BOTADMIN_ADMIN_PASSWORD"

var configPath string

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "botadmin",
		Short:         "SMC-BotAdminService operator CLI",
		Long:          "Служебные команды: миграции схемы и создание администратора.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.toml", "путь к config.toml")

	root.AddCommand(migrateCommand(), createAdminCommand())
	return root
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()
			defer db.Close()

			if err := migrations.Apply(cmd.Context(), db, log); err != nil {
				return err
			}
			log.Info("migrate: schema is up to date (db=%s)", cfg.Database.DBName)
			return nil
		},
	}
}

func createAdminCommand() *cobra.Command {
	var (
		username string
		email    string
		plain    string
	)

	c := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username = strings.TrimSpace(username)
			if username == "" {
				return errors.New("create-admin: --username is required")
			}
			if plain == "" {
				plain = os.Getenv(adminPasswordEnv)
			}

			hash, err := password.Hash(plain)
			if err != nil {
				if errors.Is(err, password.ErrTooShort) {
					return fmt.Errorf("create-admin: password must be at least %d characters (flag --password or %s)",
						password.MinLength, adminPasswordEnv)
				}
				return fmt.Errorf("create-admin: hash password: %w", err)
			}

			_, log, db, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			repo := userRepo.NewRepository(dbmetrics.Wrap(db, nil))
			created, err := repo.Create(ctx, &domain.User{
				Username:     username,
				Email:        strings.TrimSpace(email),
				PasswordHash: hash,
				IsStaff:      true,
				IsActive:     true,
			})
			if err != nil {
				if errors.Is(err, userRepo.ErrUsernameTaken) {
					return fmt.Errorf("create-admin: username %q already taken", username)
				}
				return fmt.Errorf("create-admin: %w", err)
			}

			log.Info("create-admin: administrator created: user_id=%d, username=%s", created.ID, created.Username)
			return nil
		},
	}

	c.Flags().StringVar(&username, "username", "", "имя пользователя")
	c.Flags().StringVar(&email, "email", "", "email")
	c.Flags().StringVar(&plain, "password", "", "пароль (или переменная "+adminPasswordEnv+")")
	return c
}

func setup() (*config.Config, *logger.Logger, *sql.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		log.Close()
		return nil, nil, nil, fmt.Errorf("ping database: %w", err)
	}

	return cfg, log, db, nil
}
