package value

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Domain prefixes for content fingerprints.
// The version suffix allows the encoding to change without colliding with
// keys computed by an older build.
const (
	DomainRecordSet = "arealog/recordset/v1"
	DomainFallback  = "arealog/fallback/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalHash returns the domain-separated SHA-256 of v's canonical JSON.
func CanonicalHash(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("canonical hash: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// FallbackHash hashes an arbitrary serialization with xxhash. It is used when
// a value cannot be canonically encoded (for example a NaN); the result is
// prefixed so it can never equal a canonical hash.
func FallbackHash(domain string, data []byte) string {
	h := xxhash.New()
	_, _ = h.WriteString(domain)
	_, _ = h.Write([]byte{0x00})
	_, _ = h.Write(data)
	return "x:" + strconv.FormatUint(h.Sum64(), 16)
}
