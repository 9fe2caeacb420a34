// Package humansize expresses an amount in the largest unit of a table that
// does not exceed it, using integer division.
package humansize

import (
	"errors"
	"fmt"
)

// Units maps a positive multiple to the label of that unit.
// A valid table always contains the multiple 1.
type Units map[int64]string

var (
	ErrNegativeAmount      = errors.New("negative values are not supported")
	ErrMissingBaseMultiple = errors.New("the multiple 1 is missing")
	ErrNonPositiveMultiple = errors.New("multiple <= 0")
)

// Approximate returns amount integer-divided by the largest multiple m in
// units with m == 1 or m <= amount, together with the label of m.
func Approximate(amount int64, units Units) (int64, string, error) {
	if amount < 0 {
		return 0, "", ErrNegativeAmount
	}
	if _, ok := units[1]; !ok {
		return 0, "", ErrMissingBaseMultiple
	}
	for m := range units {
		if m <= 0 {
			return 0, "", ErrNonPositiveMultiple
		}
	}

	multiple := int64(1)
	for m := range units {
		if m <= amount && m > multiple {
			multiple = m
		}
	}
	return amount / multiple, units[multiple], nil
}

// FileSizeUnits returns the binary byte units B, KiB, MiB, GiB and TiB.
func FileSizeUnits() Units {
	units := Units{1: "B"}
	multiple := int64(1)
	for _, prefix := range []string{"K", "M", "G", "T"} {
		multiple *= 1024
		units[multiple] = prefix + "iB"
	}
	return units
}

var fileSizeUnits = FileSizeUnits()

// ApproxFileSize is Approximate over FileSizeUnits.
func ApproxFileSize(n int64) (int64, string, error) {
	return Approximate(n, fileSizeUnits)
}

// FormatFileSize renders n bytes as "value label", e.g. "3 KiB".
func FormatFileSize(n int64) (string, error) {
	v, label, err := ApproxFileSize(n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s", v, label), nil
}
