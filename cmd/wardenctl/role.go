package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/db"
	"github.com/wardenhq/warden/pkg/identity"
	gormstore "github.com/wardenhq/warden/pkg/store/gorm"
)

// roleCmd represents the role command
var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles",
	Long:  `Manage roles directly against the database.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'role' requires a subcommand (list, ensure)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var roleListCmd = &cobra.Command{
	Use:   "list [tenant]",
	Short: "List the role names of a tenant",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		roles := rolesEngine()

		names, err := roles.Names(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to list roles:", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var roleEnsureCmd = &cobra.Command{
	Use:   "ensure [tenant] [name]",
	Short: "Create a role if it does not exist",
	Long: `Create a role if it does not exist.

Example:
  wardenctl role ensure acme ops --owner admin --description "on call"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		owner, _ := cmd.Flags().GetString("owner")
		description, _ := cmd.Flags().GetString("description")

		roles := rolesEngine()
		by := identity.Identity{Tenant: args[0], User: "wardenctl"}
		rows, err := roles.Create(args[0], args[1], description, owner, args[0], by)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to create role:", err)
			os.Exit(1)
		}
		if rows == 0 {
			fmt.Printf("Role '%s' already exists in tenant '%s'\n", args[1], args[0])
			return
		}
		fmt.Printf("Created role '%s' in tenant '%s'\n", args[1], args[0])
	},
}

func rolesEngine() *authz.Roles {
	gormDB, err := db.Connect(db.Config{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
		os.Exit(1)
	}
	return authz.NewRoles(gormstore.NewStore(gormDB), nil)
}

func init() {
	rootCmd.AddCommand(roleCmd)
	roleCmd.AddCommand(roleListCmd)
	roleCmd.AddCommand(roleEnsureCmd)

	roleEnsureCmd.Flags().String("owner", "wardenctl", "owner of the new role")
	roleEnsureCmd.Flags().String("description", "", "description of the new role")
}
