package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "caixaflow-cli",
		Short: "CaixaFlow CLI tool",
		Long:  `A command line interface for interacting with the CaixaFlow back-office API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the CaixaFlow API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the current running balance",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/balance")
		},
	}

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard rollup",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/dashboard")
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the movement chain balance recurrence",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/verify")
		},
	}

	var (
		adjustInbound     bool
		adjustAmount      string
		adjustDescription string
	)

	adjustCmd := &cobra.Command{
		Use:   "adjust",
		Short: "Record a manual balance adjustment",
		Run: func(cmd *cobra.Command, args []string) {
			recordAdjustment(adjustInbound, adjustAmount, adjustDescription)
		},
	}
	adjustCmd.Flags().BoolVar(&adjustInbound, "inbound", true, "Whether the adjustment adds to the balance")
	adjustCmd.Flags().StringVar(&adjustAmount, "amount", "", "Adjustment amount")
	adjustCmd.Flags().StringVar(&adjustDescription, "description", "", "Adjustment description")
	adjustCmd.MarkFlagRequired("amount")
	adjustCmd.MarkFlagRequired("description")

	rootCmd.AddCommand(balanceCmd, dashboardCmd, verifyCmd, adjustCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(path string) {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	printResponse(doRequest(req))
}

func recordAdjustment(inbound bool, amount, description string) {
	payload, err := json.Marshal(map[string]any{
		"inbound":     inbound,
		"amount":      amount,
		"description": description,
	})
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/adjustments", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	printResponse(doRequest(req))
}

func doRequest(req *http.Request) (*http.Response, []byte) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func printResponse(resp *http.Response, body []byte) {
	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}

	fmt.Println(pretty.String())
}
