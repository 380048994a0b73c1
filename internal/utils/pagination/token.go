package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const sequenceTokenKind = "seq"

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}

// EncodeSequenceToken creates a cursor positioned after sequence within the given scope
// (an account id, for journal listings).
func EncodeSequenceToken(scope string, sequence int64) string {
	return EncodeMultiFieldToken(sequenceTokenKind, scope, strconv.FormatInt(sequence, 10))
}

// DecodeSequenceToken returns the sequence a cursor points after. A token
// issued for a different scope is rejected.
func DecodeSequenceToken(token string, scope string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 3 || parts[0] != sequenceTokenKind {
		return 0, fmt.Errorf("invalid pagination token format (fields)")
	}
	if parts[1] != scope {
		return 0, fmt.Errorf("invalid pagination token (issued for a different listing)")
	}
	sequence, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || sequence < 0 {
		return 0, fmt.Errorf("invalid pagination token format (sequence parse)")
	}
	return sequence, nil
}
