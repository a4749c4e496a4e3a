package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wardenctl",
	Short: "Warden authorization server CLI",
	Long:  `wardenctl manages the warden authorization server: run it, migrate the database and administer roles.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
