// Package gtin implements the GTIN-13 codec: zero-padding, the EAN-13 check
// digit, and composition of a package's GTIN-13 from its registration
// number and packaging code.
package gtin

import (
	"fmt"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/xerr"
)

// Pad left-pads s with '0' to width n. A longer s is returned unchanged.
// Pad is idempotent: Pad(n, Pad(n, s)) == Pad(n, s).
func Pad(n int, s string) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// Checksum computes the EAN-13 check digit of a 12-digit string: weight
// positions alternately 1, 3, ...; sum mod 10; check = (10 - sum mod 10) mod 10.
func Checksum(d12 string) (byte, error) {
	if len(d12) != 12 {
		return 0, fmt.Errorf("gtin: %w: expected 12 digits, got %q", xerr.ErrBadIdentifier, d12)
	}

	sum := 0
	for i, r := range d12 {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("gtin: %w: non-digit in %q", xerr.ErrBadIdentifier, d12)
		}
		digit := int(r - '0')
		if i%2 == 0 {
			sum += digit * 1
		} else {
			sum += digit * 3
		}
	}

	check := (10 - sum%10) % 10
	return byte('0' + check), nil
}

// GTIN13 composes a package's GTIN-13 as "7680" + rn5 + pack3 + checksum.
func GTIN13(rn5, pack3 string) (string, error) {
	d12 := "7680" + rn5 + pack3
	check, err := Checksum(d12)
	if err != nil {
		return "", err
	}
	return d12 + string(check), nil
}

// Valid reports whether gtin13 is exactly 13 digits whose 13th digit is the
// correct EAN-13 checksum of the first 12.
func Valid(gtin13 string) bool {
	if len(gtin13) != 13 {
		return false
	}
	check, err := Checksum(gtin13[:12])
	if err != nil {
		return false
	}
	return check == gtin13[12]
}
