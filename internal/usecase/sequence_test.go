package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/usecase"
	"github.com/iho/balanceledger/internal/usecase/mocks"
)

func TestSequenceGenerator_NextTransactionID(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockCounterRepository(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	gomock.InOrder(
		counter.EXPECT().GetForUpdate(gomock.Any(), tx, "002-COU").Return(int64(99999), nil),
		counter.EXPECT().Set(gomock.Any(), tx, "002-COU", int64(100000)).Return(nil),
	)

	gen := usecase.NewSequenceGenerator(counter, "002-COU", nil)
	id, err := gen.NextTransactionID(context.Background(), tx, time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != "20231231-00000.100000" {
		t.Errorf("id = %q, want 20231231-00000.100000", id)
	}
}

func TestSequenceGenerator_UsesConfiguredLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockCounterRepository(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	counter.EXPECT().GetForUpdate(gomock.Any(), tx, domain.DefaultCounterID).Return(int64(0), nil)
	counter.EXPECT().Set(gomock.Any(), tx, domain.DefaultCounterID, int64(1)).Return(nil)

	tokyo := time.FixedZone("JST", 9*60*60)
	gen := usecase.NewSequenceGenerator(counter, "", tokyo)

	id, err := gen.NextTransactionID(context.Background(), tx, time.Date(2023, time.December, 31, 20, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != "20240101-00000.00001" {
		t.Errorf("id = %q, want 20240101-00000.00001", id)
	}

	if gen.CounterID() != domain.DefaultCounterID {
		t.Errorf("CounterID() = %q", gen.CounterID())
	}
}

func TestSequenceGenerator_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockCounterRepository(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	counter.EXPECT().GetForUpdate(gomock.Any(), tx, gomock.Any()).Return(int64(0), domain.ErrCounterNotProvisioned)

	gen := usecase.NewSequenceGenerator(counter, "", time.UTC)
	if _, err := gen.NextTransactionID(context.Background(), tx, time.Now()); !errors.Is(err, domain.ErrCounterNotProvisioned) {
		t.Fatalf("expected ErrCounterNotProvisioned, got %v", err)
	}

	writeErr := errors.New("write failed")
	counter.EXPECT().GetForUpdate(gomock.Any(), tx, gomock.Any()).Return(int64(4), nil)
	counter.EXPECT().Set(gomock.Any(), tx, gomock.Any(), int64(5)).Return(writeErr)

	if _, err := gen.NextTransactionID(context.Background(), tx, time.Now()); !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
}
