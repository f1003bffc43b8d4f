package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// E8sPerUnit is the scale factor between the display unit and e8s,
// the smallest ledger currency unit.
const E8sPerUnit = 100_000_000

const maxFractionDigits = 8

// ParsePrice converts a user-entered decimal amount into e8s.
// The conversion is exact multiplication by the fixed scale factor;
// inputs with more than 8 fractional digits or any non-digit content
// are rejected rather than rounded.
func ParsePrice(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidPrice)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: negative amount %q", ErrInvalidPrice, s)
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: no digits in %q", ErrInvalidPrice, s)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > maxFractionDigits {
		return 0, fmt.Errorf("%w: more than %d fractional digits in %q",
			ErrInvalidPrice, maxFractionDigits, s)
	}

	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}

	var f uint64
	if frac != "" {
		// Pad to 8 digits so "5" after the point means 50000000 e8s.
		padded := frac + strings.Repeat("0", maxFractionDigits-len(frac))
		f, err = strconv.ParseUint(padded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
		}
	}

	const maxWhole = ^uint64(0) / E8sPerUnit
	if w > maxWhole || w*E8sPerUnit > ^uint64(0)-f {
		return 0, fmt.Errorf("%w: amount %q overflows", ErrInvalidPrice, s)
	}
	return w*E8sPerUnit + f, nil
}

// FormatPrice renders an e8s amount as a decimal display string.
// The rendering is exact division by the scale factor with trailing
// fractional zeros trimmed, so ParsePrice(FormatPrice(v)) == v.
func FormatPrice(e8s uint64) string {
	whole := e8s / E8sPerUnit
	frac := e8s % E8sPerUnit
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fs := strings.TrimRight(fmt.Sprintf("%08d", frac), "0")
	return fmt.Sprintf("%d.%s", whole, fs)
}
