// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

// Package auction evaluates time-boxed Dutch auction price curves and advises
// on auction price bounds from the tracked fee trend. An order's acceptable
// execution price decays linearly from a starting price to a floor price over
// a fixed window.
package auction

import (
	"fmt"
	"time"

	"github.com/dutchex/dutchex"
)

// ErrInvalidSpec is returned for auction windows that cannot produce a
// meaningful curve.
const ErrInvalidSpec = dutchex.ErrorKind("invalid auction spec")

// Spec defines one auction curve. It is produced once per order fragment at
// auction creation and read-only thereafter. StartPrice >= EndPrice is the
// expected case, but a rising auction is representable.
type Spec struct {
	StartPrice float64
	EndPrice   float64
	StartTime  time.Time
	EndTime    time.Time
}

// New validates and creates an auction Spec. The end time must be strictly
// after the start time, and prices must be non-negative.
func New(startPrice, endPrice float64, startTime, endTime time.Time) (*Spec, error) {
	if startPrice < 0 || endPrice < 0 {
		return nil, dutchex.NewError(ErrInvalidSpec,
			fmt.Sprintf("negative price (start %f, end %f)", startPrice, endPrice))
	}
	if !endTime.After(startTime) {
		return nil, dutchex.NewError(ErrInvalidSpec,
			fmt.Sprintf("end time %s not after start time %s", endTime, startTime))
	}
	return &Spec{
		StartPrice: startPrice,
		EndPrice:   endPrice,
		StartTime:  startTime,
		EndTime:    endTime,
	}, nil
}

// Duration is the auction window length.
func (s *Spec) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
