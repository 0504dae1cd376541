package textsource

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// ErrBinaryPayload is returned for payloads that are not text in any encoding
var ErrBinaryPayload = errors.New("payload is binary")

// decodeText converts a plain text payload to UTF-8. Valid UTF-8 is returned
// as is; otherwise byte order marks are honoured and windows-1252 is the
// fallback.
func decodeText(payload []byte) (string, error) {
	if looksBinary(payload) {
		return "", ErrBinaryPayload
	}

	if utf8.Valid(payload) {
		return strings.TrimPrefix(string(payload), "\uFEFF"), nil
	}

	// DetermineEncoding sniffs only the first 1024 bytes
	enc, name, _ := charset.DetermineEncoding(payload, "text/plain")
	if name == "utf-8" {
		enc, _ = charset.Lookup("windows-1252")
	}
	decoded, err := enc.NewDecoder().Bytes(payload)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(decoded) {
		return "", errors.New("payload is not valid text")
	}

	return strings.TrimPrefix(string(decoded), "\uFEFF"), nil
}

// looksBinary reports NUL bytes, except in UTF-16 payloads that announce
// themselves with a byte order mark.
func looksBinary(payload []byte) bool {
	if bytes.HasPrefix(payload, []byte{0xFE, 0xFF}) || bytes.HasPrefix(payload, []byte{0xFF, 0xFE}) {
		return false
	}
	return bytes.IndexByte(payload, 0) >= 0
}
