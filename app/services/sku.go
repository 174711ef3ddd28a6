package services

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
)

// DeriveSKU returns the numeric SKU for a (name, brand, size) triple:
//
//	digest = sha256(name + brand) as lowercase hex
//	base   = first 6 decimal digits of int(digest[:6], 16)
//	sku    = 1000*base + 10*trunc(size)
//
// The decimal form of the 6-hex-digit prefix is not padded, so prefixes
// below 0x0186a0 yield a base with fewer than 6 digits. Size is truncated
// toward zero. Distinct triples can share a SKU; the reconciler detects it.
func DeriveSKU(name, brand string, size float64) int64 {
	sum := sha256.Sum256([]byte(name + brand))
	digest := hex.EncodeToString(sum[:])

	prefix, _ := strconv.ParseInt(digest[:6], 16, 64)
	dec := strconv.FormatInt(prefix, 10)
	if len(dec) > 6 {
		dec = dec[:6]
	}
	base, _ := strconv.ParseInt(dec, 10, 64)

	return 1000*base + 10*int64(math.Trunc(size))
}

// GenerateSKU is DeriveSKU in its decimal string form.
func GenerateSKU(name, brand string, size float64) string {
	return FormatSKU(DeriveSKU(name, brand, size))
}

// truncSize is the size as it participates in a SKU.
func truncSize(size float64) int64 {
	return int64(math.Trunc(size))
}

// FormatSKU renders a SKU in decimal.
func FormatSKU(sku int64) string {
	return strconv.FormatInt(sku, 10)
}

// ParseSKU parses a decimal SKU. Malformed input is ErrInvalidInput.
func ParseSKU(s string) (int64, error) {
	sku, err := strconv.ParseInt(s, 10, 64)
	if err != nil || sku < 0 {
		return 0, invalid("sku %q is not a non-negative integer", s)
	}
	return sku, nil
}
