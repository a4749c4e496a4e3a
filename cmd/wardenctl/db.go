package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// dbCmd groups the schema management subcommands.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database schema",
	Long:  `Manage the database schema: apply, roll back and inspect migrations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return errors.New("db requires a subcommand (migrate, down, status)")
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
