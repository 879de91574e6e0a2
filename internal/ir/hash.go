package ir

import (
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

// Domain prefixes for content-addressed identity. Both domains carry
// ColorModelVersion so ids minted under another descriptor encoding never
// compare equal.
const (
	DomainColor = "colorgraph/color/v" + ColorModelVersion
	DomainTable = "colorgraph/table/v" + ColorModelVersion
)

// hashWithDomain computes a BLAKE3-256 hash with domain separation.
// Format: BLAKE3(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := blake3.New(32, nil)
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ColorID computes the content-addressed identity of a color from its
// descriptor object. Descriptors are marshaled with MarshalExact: two
// descriptors share an id only if they hold the same bytes, so names that
// differ only in Unicode normalization stay distinct colors.
func ColorID(descriptor IRObject) (string, error) {
	canonical, err := MarshalExact(descriptor)
	if err != nil {
		return "", fmt.Errorf("ColorID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainColor, canonical), nil
}

// TableDigest computes the digest of a compiled color table.
// Used by the CLI and harness to report which table a run was built from.
func TableDigest(table IRObject) (string, error) {
	canonical, err := MarshalExact(table)
	if err != nil {
		return "", fmt.Errorf("TableDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTable, canonical), nil
}

// MustColorID is like ColorID but panics on error.
// Use only when the descriptor is built from known-valid values.
func MustColorID(descriptor IRObject) string {
	id, err := ColorID(descriptor)
	if err != nil {
		panic(err)
	}
	return id
}
