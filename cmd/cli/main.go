package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	baseURL    string
	timeout    time.Duration
	maxElapsed time.Duration
}

func (o *rootOptions) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout, o.maxElapsed)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "balanceledger-cli",
		Short:         "Balance ledger CLI tool",
		Long:          `A command line interface for interacting with the balance ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().DurationVar(&opts.maxElapsed, "retry-max-elapsed", 15*time.Second, "Give up retrying busy responses after this long (0 disables retries)")

	rootCmd.AddCommand(
		depositCmd(opts),
		withdrawCmd(opts),
		transferCmd(opts),
		historyCmd(opts),
		balanceCmd(opts),
		transactionCmd(opts),
		ledgerCmd(opts),
		migrateCmd(),
	)

	return rootCmd
}
