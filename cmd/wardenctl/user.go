package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/db"
	"github.com/wardenhq/warden/pkg/identity"
	gormstore "github.com/wardenhq/warden/pkg/store/gorm"
	"github.com/wardenhq/warden/pkg/vault"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  `Manage user credentials.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (set-api-key)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// userSetAPIKeyCmd represents the user set-api-key command
var userSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key [tenant] [user]",
	Short: "Generate and store an API key for a user",
	Long: `Generate and store an API key for a user.

The key is stored encrypted in the vault and printed to STDOUT. The user
authenticates with it at /authn/{tenant}/{user}/authenticate.

Requires WARDEN_DATA_KEY and DATABASE_URL.

Example:
  wardenctl user set-api-key acme alice`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		tenant, user := args[0], args[1]

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

		apiKey, err := vault.GenerateDataKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate API key:", err)
			os.Exit(1)
		}

		v := vault.New(gormstore.NewStore(gormDB), cipher)
		by := identity.Identity{Tenant: tenant, User: "wardenctl"}
		path := "/warden/users/" + user + "/api-key"
		if err := v.Put(tenant, path, []byte(apiKey), vault.WriteOptions{}, by); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to store API key:", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Stored API key for %s:%s\n", tenant, user)
		fmt.Println(apiKey)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userSetAPIKeyCmd)
}
