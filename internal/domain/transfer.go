package domain

import "github.com/shopspring/decimal"

// SplitTransfer returns the amount credited to each of targetCount targets.
//
// The share is total / targetCount with decimal.DivisionPrecision places and
// is applied identically to every target. The remainder is not redistributed,
// so the credited total may differ from the debited total by less than
// targetCount * 10^-DivisionPrecision.
func SplitTransfer(total decimal.Decimal, targetCount int) (decimal.Decimal, error) {
	if targetCount <= 0 {
		return decimal.Zero, ErrNoTargetAccounts
	}

	return total.Div(decimal.NewFromInt(int64(targetCount))), nil
}

// SplitResidue is the amount debited but not credited by a split.
func SplitResidue(total decimal.Decimal, targetCount int) (decimal.Decimal, error) {
	share, err := SplitTransfer(total, targetCount)
	if err != nil {
		return decimal.Zero, err
	}

	return total.Sub(share.Mul(decimal.NewFromInt(int64(targetCount)))), nil
}
