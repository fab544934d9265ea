package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/adapter/http/dto"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestDepositCmd_SendsRequestWithIdempotencyKey(t *testing.T) {
	var (
		got dto.TransactionRequest
		key string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/transactions/deposit" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		key = r.Header.Get(idempotencyKeyHeader)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"transactionId":"20240307-00000.00001"}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "deposit", "--account", "A", "--currency", "USD", "--amount", "12.50", "--note", "cash")
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	if strings.TrimSpace(out) != "20240307-00000.00001" {
		t.Fatalf("unexpected output %q", out)
	}
	if got.AccountID != "A" || !got.Amount.Equal(decimal.RequireFromString("12.5")) || got.Note != "cash" {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(key) != 26 {
		t.Fatalf("expected generated ULID idempotency key, got %q", key)
	}
}

func TestWithdrawCmd_ReportsInsufficientBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"insufficient balance","message":"Insufficient balance."}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, "--url", srv.URL, "withdraw", "--account", "A", "--currency", "USD", "--amount", "10")
	if err == nil || !strings.Contains(err.Error(), "Insufficient balance.") {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
}

func TestTransferCmd_RetriesBusyResponses(t *testing.T) {
	var (
		calls atomic.Int32
		keys  []string
		got   dto.TransferRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get(idempotencyKeyHeader))
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"transactionId":"20240307-00000.00002"}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "transfer", "--from", "A", "--to", "B", "--to", "C", "--currency", "USD", "--amount", "100", "--idempotency-key", "fixed")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
	if keys[0] != "fixed" || keys[1] != "fixed" {
		t.Fatalf("expected idempotency key reused, got %v", keys)
	}
	if len(got.TargetAccountIDs) != 2 || got.SourceAccountID != "A" {
		t.Fatalf("unexpected request %+v", got)
	}
	if strings.TrimSpace(out) != "20240307-00000.00002" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTransferCmd_NoRetryWhenDisabled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := runCLI(t, "--url", srv.URL, "--retry-max-elapsed", "0", "transfer", "--from", "A", "--to", "B", "--currency", "USD", "--amount", "1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestDepositCmd_RejectsMalformedAmount(t *testing.T) {
	_, err := runCLI(t, "--url", "http://127.0.0.1:0", "deposit", "--account", "A", "--currency", "USD", "--amount", "ten")
	if err == nil || !strings.Contains(err.Error(), "invalid amount") {
		t.Fatalf("expected invalid amount error, got %v", err)
	}
}

func TestHistoryCmd_PrintsTable(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts/A/history" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"transactionId":"20240307-00000.00001","accountId":"A","currencyId":"USD","transactionDate":"2024-03-07T10:00:00Z","amount":"-100","direction":"debit","note":"TRANSFER"}]`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "history", "--account", "A", "--start", "2024-03-01")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	if query != "startDate=2024-03-01" {
		t.Fatalf("unexpected query %q", query)
	}
	for _, want := range []string{"TRANSACTION", "20240307-00000.00001", "2024-03-07 10:00:00", "debit", "-100", "TRANSFER"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestLedgerConsistencyCmd(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantOut string
		wantErr bool
	}{
		{"consistent", http.StatusOK, `{"status":"consistent","consistent":true,"totalBalance":"10","lastCounterValue":4}`, "PASSED", false},
		{"inconsistent", http.StatusConflict, `{"status":"inconsistent","consistent":false}`, "FAILED", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out, err := runCLI(t, "--url", srv.URL, "ledger", "consistency")
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Fatalf("expected %q in output %q", tt.wantOut, out)
			}
		})
	}
}
