// Package abi decodes ABI-encoded return values from untrusted hex
// payloads. All failure is reported through the ok return; nothing here
// panics on malformed input.
package abi

import (
	"encoding/hex"
	"math/big"
	"strings"
)

const wordHexLen = 64

func stripHexPrefix(value string) string {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return value[2:]
	}
	return value
}

func isHex(value string) bool {
	for _, c := range value {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// cleanDecoded strips trailing NUL padding and surrounding whitespace.
// An empty result is a decode failure, not an empty string.
func cleanDecoded(value string) (string, bool) {
	trimmed := strings.TrimRight(value, "\x00")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func decodeUTF8(hexStr string) (string, bool) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// decodeBytes32 handles the legacy convention where symbol/name is a fixed
// 32-byte word of raw UTF-8, right-padded with NULs.
func decodeBytes32(hexStr string) (string, bool) {
	decoded, ok := decodeUTF8(hexStr)
	if !ok {
		return "", false
	}
	return cleanDecoded(decoded)
}

// decodeDynamic handles the standard dynamic-string encoding: word 1 is the
// byte offset to the data area, the word at that offset is the byte length,
// followed by that many content bytes right-padded to a word boundary.
func decodeDynamic(hexStr string) (string, bool) {
	if len(hexStr) < wordHexLen*2 {
		return "", false
	}

	offset, ok := parseWord(hexStr[:wordHexLen])
	if !ok {
		return "", false
	}

	offsetIdx := offset * 2
	if offsetIdx < wordHexLen || offsetIdx+wordHexLen > uint64(len(hexStr)) {
		return "", false
	}

	length, ok := parseWord(hexStr[offsetIdx : offsetIdx+wordHexLen])
	if !ok {
		return "", false
	}

	dataStart := offsetIdx + wordHexLen
	dataEnd := dataStart + length*2
	if dataEnd > uint64(len(hexStr)) {
		return "", false
	}

	decoded, ok := decodeUTF8(hexStr[dataStart:dataEnd])
	if !ok {
		return "", false
	}
	return cleanDecoded(decoded)
}

// parseWord reads one 32-byte word as a big-endian integer that must fit
// in a uint64; anything larger cannot be a sane offset or length anyway.
func parseWord(wordHex string) (uint64, bool) {
	n, ok := new(big.Int).SetString(wordHex, 16)
	if !ok || !n.IsUint64() {
		return 0, false
	}
	return n.Uint64(), true
}

// DecodeString decodes a string return value, supporting both the fixed
// bytes32 convention and the standard dynamic encoding. A payload longer
// than one word that fails dynamic decoding falls back to reading its
// first word as bytes32.
func DecodeString(value string) (string, bool) {
	hexStr := stripHexPrefix(value)
	if hexStr == "" || !isHex(hexStr) {
		return "", false
	}

	if len(hexStr) == wordHexLen {
		return decodeBytes32(hexStr)
	}

	if decoded, ok := decodeDynamic(hexStr); ok {
		return decoded, true
	}

	first := hexStr
	if len(first) > wordHexLen {
		first = first[:wordHexLen]
	}
	return decodeBytes32(first)
}

// DecodeUint8 reads the first 32-byte word as a big-endian integer and
// rejects anything that does not fit a uint8 (the ERC-20 decimals range).
func DecodeUint8(value string) (uint8, bool) {
	hexStr := stripHexPrefix(value)
	if len(hexStr) < wordHexLen || !isHex(hexStr) {
		return 0, false
	}

	n, ok := parseWord(hexStr[:wordHexLen])
	if !ok || n > 0xff {
		return 0, false
	}
	return uint8(n), true
}
