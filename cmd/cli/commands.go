package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/balanceledger/internal/adapter/http/dto"
	"github.com/iho/balanceledger/internal/infrastructure/postgres"
)

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

func idempotencyKey(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return ulid.Make().String()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

type singleAccountFlags struct {
	account  string
	currency string
	amount   string
	note     string
	key      string
}

func (f *singleAccountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "Account ID")
	cmd.Flags().StringVar(&f.currency, "currency", "", "Currency ID")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount (decimal)")
	cmd.Flags().StringVar(&f.note, "note", "", "Free-form note")
	cmd.Flags().StringVar(&f.key, "idempotency-key", "", "Idempotency key (generated when empty)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("currency")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *singleAccountFlags) request() (*dto.TransactionRequest, error) {
	amount, err := parseAmount(f.amount)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionRequest{
		AccountID:  f.account,
		CurrencyID: f.currency,
		Note:       f.note,
		Amount:     amount,
	}, nil
}

func singleAccountCmd(opts *rootOptions, use, short, path string) *cobra.Command {
	flags := &singleAccountFlags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			var resp dto.TransactionResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, path, req, idempotencyKey(flags.key), &resp); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.TransactionID)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func depositCmd(opts *rootOptions) *cobra.Command {
	return singleAccountCmd(opts, "deposit", "Credit an account", "/api/v1/transactions/deposit")
}

func withdrawCmd(opts *rootOptions) *cobra.Command {
	return singleAccountCmd(opts, "withdraw", "Debit an account", "/api/v1/transactions/withdraw")
}

func transferCmd(opts *rootOptions) *cobra.Command {
	var (
		from     string
		to       []string
		currency string
		amount   string
		key      string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Split an amount from one account across one or more targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := parseAmount(amount)
			if err != nil {
				return err
			}

			req := &dto.TransferRequest{
				SourceAccountID:  from,
				CurrencyID:       currency,
				TargetAccountIDs: to,
				Amount:           total,
			}

			var resp dto.TransactionResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/transactions/transfer", req, idempotencyKey(key), &resp); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.TransactionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source account ID")
	cmd.Flags().StringSliceVar(&to, "to", nil, "Target account ID (repeatable)")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Total amount (decimal)")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key (generated when empty)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("currency")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func historyCmd(opts *rootOptions) *cobra.Command {
	var (
		account string
		start   string
		end     string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List an account's history",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if start != "" {
				query.Set("startDate", start)
			}
			if end != "" {
				query.Set("endDate", end)
			}

			path := "/api/v1/accounts/" + url.PathEscape(account) + "/history"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var entries []dto.HistoryEntryResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, nil, "", &entries); err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TRANSACTION\tDATE\tCURRENCY\tDIRECTION\tAMOUNT\tNOTE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.TransactionID,
					e.TransactionDate.Format("2006-01-02 15:04:05"),
					e.CurrencyID,
					e.Direction,
					e.Amount.String(),
					truncate(e.Note, 40),
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account ID")
	cmd.Flags().StringVar(&start, "start", "", "Start date, inclusive (RFC 3339 or yyyy-mm-dd)")
	cmd.Flags().StringVar(&end, "end", "", "End date, inclusive (RFC 3339 or yyyy-mm-dd)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func balanceCmd(opts *rootOptions) *cobra.Command {
	var account, currency string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show an account's balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/" + url.PathEscape(account) + "/balances"

			if currency != "" {
				var balance dto.BalanceResponse
				if err := opts.client().do(cmd.Context(), http.MethodGet, path+"/"+url.PathEscape(currency), nil, "", &balance); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), balance)
			}

			var balances []dto.BalanceResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, nil, "", &balances); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), balances)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account ID")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency ID (all currencies when empty)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func transactionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transaction <id>",
		Short: "Show the entries written by one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var detail dto.TransactionDetailResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/transactions/"+url.PathEscape(args[0]), nil, "", &detail); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), detail)
		},
	}
}

func ledgerCmd(opts *rootOptions) *cobra.Command {
	ledger := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledger.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, "", &report)

			out := cmd.OutOrStdout()
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				fmt.Fprintln(out, "Consistency check FAILED")
				return apiErr
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Consistency check PASSED")
			fmt.Fprintf(out, "Total balance: %s\n", report.TotalBalance)
			fmt.Fprintf(out, "Last transaction number: %d\n", report.LastCounterValue)
			return nil
		},
	})

	return ledger
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	migrator := func() *postgres.Migrator {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()
		return postgres.NewMigrator(databaseURL, migrationsPath, logger)
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the ledger schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "migrations-path", "internal/infrastructure/postgres/migrations", "Directory holding migration files")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrator().Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrator().Down()
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				version, dirty, err := migrator().Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %v)\n", version, dirty)
				return nil
			},
		},
	)

	return cmd
}
