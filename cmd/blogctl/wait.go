package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the blog server to report healthy",
	Long: `Wait for the blog server to report healthy.

GET /health always answers 200, so readiness is read from the reported
status: the database must be reachable and the upload directory present.
With --any-status any answer counts as ready.

Example:
  blogctl wait
  blogctl wait --port 3000 --retries 60
  blogctl wait --url http://blog:3000 --any-status`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		baseURL, _ := cmd.Flags().GetString("url")
		retries, _ := cmd.Flags().GetInt("retries")
		interval, _ := cmd.Flags().GetDuration("interval")
		anyStatus, _ := cmd.Flags().GetBool("any-status")

		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", port)
		}

		p := healthProbe{
			url:       baseURL + "/health",
			client:    &http.Client{Timeout: 2 * time.Second},
			anyStatus: anyStatus,
		}
		if err := p.wait(retries, interval); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Blog server is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check on localhost")
	waitCmd.Flags().String("url", "", "Server base URL (overrides --port)")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of attempts")
	waitCmd.Flags().Duration("interval", time.Second, "Delay between attempts")
	waitCmd.Flags().Bool("any-status", false, "Accept an unhealthy report")
}

func defaultPortInt() int {
	for _, key := range []string{"BLOG_PORT", "PORT"} {
		if p, err := strconv.Atoi(os.Getenv(key)); err == nil {
			return p
		}
	}
	return 3000
}

type healthProbe struct {
	url       string
	client    *http.Client
	anyStatus bool
}

// check performs one request and returns the reported status.
func (p healthProbe) check() (string, error) {
	resp, err := p.client.Get(p.url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("invalid health response: %w", err)
	}
	return body.Data.Status, nil
}

func (p healthProbe) wait(retries int, interval time.Duration) error {
	fmt.Println("Waiting for the blog server to be ready...")

	last := "no response"
	for i := 0; i < retries; i++ {
		status, err := p.check()
		switch {
		case err != nil:
			last = err.Error()
		case status == "healthy" || p.anyStatus:
			fmt.Println()
			return nil
		default:
			last = "reported " + status
		}

		fmt.Print(".")
		time.Sleep(interval)
	}

	fmt.Println()
	return fmt.Errorf("not ready after %d attempts (%s)", retries, last)
}
