package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/audit"
	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/config"
	"github.com/wardenhq/warden/pkg/db"
	"github.com/wardenhq/warden/pkg/server"
	"github.com/wardenhq/warden/pkg/server/endpoints"
	"github.com/wardenhq/warden/pkg/server/middleware"
	gormstore "github.com/wardenhq/warden/pkg/store/gorm"
	"github.com/wardenhq/warden/pkg/vault"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the warden authorization server",
	Long: `Run the warden authorization server.

Requires the environment variables WARDEN_DATA_KEY, WARDEN_TOKEN_KEY and
DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Fail fast on missing environment before touching the database.
		if os.Getenv("WARDEN_DATA_KEY") == "" {
			fmt.Fprintln(os.Stderr, "WARDEN_DATA_KEY environment variable is required")
			os.Exit(1)
		}
		tokenKey := os.Getenv("WARDEN_TOKEN_KEY")
		if tokenKey == "" {
			fmt.Fprintln(os.Stderr, "WARDEN_TOKEN_KEY environment variable is required")
			os.Exit(1)
		}
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad configuration:", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("listen-address"); addr != "" {
			cfg.ListenAddress = addr
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		cipher, err := vault.CipherFromEnv()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initiate cipher:", err)
			os.Exit(1)
		}

		gormDB, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		tokens, err := middleware.NewTokenService([]byte(tokenKey), cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initiate token service:", err)
			os.Exit(1)
		}

		var auditStore *audit.Store
		if cfg.AuditToDatabase {
			sqlDB, err := gormDB.DB()
			if err != nil {
				fmt.Fprintln(os.Stderr, "Unable to access DB handle:", err)
				os.Exit(1)
			}
			auditStore = audit.NewStoreWithDB(sqlDB)
		}
		recorder := audit.NewRecorder(audit.NewLogger(), auditStore)

		st := gormstore.NewStore(gormDB)
		hierarchy := authz.NewHierarchy(st, recorder)

		s := server.NewServer(server.Deps{
			DB:          gormDB,
			Config:      cfg,
			Roles:       authz.NewRoles(st, recorder),
			Hierarchy:   hierarchy,
			Permissions: authz.NewPermissions(st, recorder),
			Assignments: authz.NewAssignments(st, hierarchy, recorder),
			Shares:      authz.NewShares(st, recorder),
			Vault:       vault.New(st, cipher),
			Tokens:      tokens,
			Recorder:    recorder,
		})
		endpoints.RegisterAll(s)

		stop := make(chan struct{})
		defer close(stop)
		go func() {
			err := config.Watch(cfg, func(*config.Config) {
				logrus.Info("configuration reloaded")
			}, stop)
			if err != nil {
				logrus.WithError(err).Warn("configuration watch disabled")
			}
		}()

		log.Printf("Running server at http://%s...\n", cfg.ListenAddress)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("listen-address", "l", "", "listen address override (host:port)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
