// Package annotation decodes the per-residue annotation channels embedded in
// sequence record descriptions as space-separated tag:payload fields.
//
// Categorical channels use a run-length payload ("12H3C4-"); numeric channels
// use two hexadecimal digits per residue ("1f40ff").
package annotation

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Lookup returns the payload of the first tag:payload field in description.
func Lookup(description, tag string) (string, bool) {
	prefix := tag + ":"
	for _, field := range strings.Fields(description) {
		if strings.HasPrefix(field, prefix) {
			return field[len(prefix):], true
		}
	}
	return "", false
}

// DecodeRunLength expands a payload of (count)(label) groups into a flat label
// string of at most limit labels. A payload that expands past limit is rejected
// before the excess run is allocated.
func DecodeRunLength(payload string, limit int) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty run-length payload")
	}
	if limit < 0 {
		limit = 0
	}
	out := make([]byte, 0, limit)
	for i := 0; i < len(payload); {
		j := i
		for j < len(payload) && isDigit(payload[j]) {
			j++
		}
		if j == i {
			return nil, fmt.Errorf("expected run count at offset %d, got %q", i, payload[i])
		}
		if j == len(payload) {
			return nil, fmt.Errorf("run count at offset %d has no label", i)
		}
		count, err := strconv.Atoi(payload[i:j])
		if err != nil {
			return nil, fmt.Errorf("invalid run count %q: %w", payload[i:j], err)
		}
		if count > limit-len(out) {
			return nil, fmt.Errorf("run %q at offset %d expands past %d labels", payload[i:j+1], i, limit)
		}
		label := payload[j]
		for k := 0; k < count; k++ {
			out = append(out, label)
		}
		i = j + 1
	}
	return out, nil
}

// EncodeRunLength compresses labels into (count)(label) groups. Digit labels
// cannot be represented and are rejected.
func EncodeRunLength(labels []byte) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(labels); {
		if isDigit(labels[i]) {
			return "", fmt.Errorf("label %q at offset %d is a digit", labels[i], i)
		}
		j := i + 1
		for j < len(labels) && labels[j] == labels[i] {
			j++
		}
		sb.WriteString(strconv.Itoa(j - i))
		sb.WriteByte(labels[i])
		i = j
	}
	return sb.String(), nil
}

// DecodeHexPairs decodes every two hexadecimal digits into one 0-255 value.
func DecodeHexPairs(payload string) ([]byte, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("hex payload has odd length %d", len(payload))
	}
	values, err := hex.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload: %w", err)
	}
	return values, nil
}

// EncodeHexPairs renders each value as two lowercase hexadecimal digits.
func EncodeHexPairs(values []byte) string {
	return hex.EncodeToString(values)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
