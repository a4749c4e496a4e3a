package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/config"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the warden server to be ready",
	Long: `Wait for the warden server to report a healthy status.

Polls the status endpoint until it reports "ok" (server up and database
reachable) or the timeout elapses. The URL defaults to the configured
listen address.

Example:
  wardenctl wait
  wardenctl wait --url http://warden.internal:8423 --timeout 2m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		interval, _ := cmd.Flags().GetDuration("interval")

		if url == "" {
			url = statusURL()
		}

		if err := waitForServer(url, timeout, interval); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().StringP("url", "u", "", "Status URL to poll (default derived from configuration)")
	waitCmd.Flags().Duration("timeout", 90*time.Second, "Give up after this long")
	waitCmd.Flags().Duration("interval", time.Second, "Delay between polls")
}

// statusURL builds the status endpoint URL from the configured listen
// address. A bare ":port" listen address polls localhost.
func statusURL() string {
	addr := ":8423"
	if cfg, err := config.Load(); err == nil {
		addr = cfg.ListenAddress
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/status"
}

func waitForServer(url string, timeout, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	fmt.Println("Waiting for warden to be ready...")

	for time.Now().Before(deadline) {
		if serverHealthy(client, url) {
			fmt.Println()
			fmt.Println("warden is ready!")
			return nil
		}

		fmt.Print(".")
		time.Sleep(interval)
	}

	fmt.Println()
	return fmt.Errorf("warden is not ready after %s", timeout)
}

// serverHealthy requires the status endpoint to answer 2xx with
// status "ok"; a degraded answer (database unreachable) keeps waiting.
func serverHealthy(client *http.Client, url string) bool {
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return false
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false
	}
	return status.Status == "ok"
}
