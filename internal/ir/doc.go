// Package ir provides the canonical value encoding and content-addressed
// identity used to key colors.
//
// All other internal packages import ir; ir imports nothing internal. This
// keeps identity computation the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - Canonical JSON follows RFC 8785 (UTF-16 key order, NFC strings)
//   - Identities hash the exact form (no NFC, invalid bytes escaped), so
//     distinct descriptors never share an id
//   - Identities are domain-separated so a color id can never collide with a
//     table digest computed over the same bytes
package ir
