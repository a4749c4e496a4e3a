package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/config"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Manage the server configuration",
	Long:  `Manage the server configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'configuration' requires a subcommand (show)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration and the source of each attribute.

Example:
  wardenctl configuration show
  wardenctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad configuration:", err)
			os.Exit(1)
		}

		output, _ := cmd.Flags().GetString("output")
		switch output {
		case "json":
			out, err := cfg.FormatJSON()
			if err != nil {
				fmt.Fprintln(os.Stderr, "Failed to render configuration:", err)
				os.Exit(1)
			}
			fmt.Println(out)
		default:
			fmt.Print(cfg.FormatText())
		}
	},
}

func init() {
	rootCmd.AddCommand(configurationCmd)
	configurationCmd.AddCommand(configurationShowCmd)

	configurationShowCmd.Flags().StringP("output", "o", "text", "output format (text, json)")
}
