package photo

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrETagMissing indicates that the service returned no content hash.
var ErrETagMissing = errors.New("photo ETag is missing")

// ErrETagUnsupported signals an ETag that is not a plain MD5 digest, such as
// a multipart-upload ETag ("<hex>-<parts>").
var ErrETagUnsupported = errors.New("photo ETag is not an MD5 digest")

// ErrETagMismatch means the stored content differs from what was sent.
var ErrETagMismatch = errors.New("photo ETag does not match uploaded content")

// ParseETag strips quotes and weak markers and returns the lowercase hex digest.
func ParseETag(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)

	if raw == "" {
		return "", ErrETagMissing
	}

	value := strings.ToLower(raw)
	if len(value) != hex.EncodedLen(16) {
		return "", fmt.Errorf("%w: %q", ErrETagUnsupported, raw)
	}

	if _, err := hex.DecodeString(value); err != nil {
		return "", fmt.Errorf("%w: %q", ErrETagUnsupported, raw)
	}

	return value, nil
}

// VerifyETag compares raw against the MD5 sum of the uploaded bytes.
func VerifyETag(raw string, sum []byte) error {
	value, err := ParseETag(raw)
	if err != nil {
		return err
	}

	if got := hex.EncodeToString(sum); got != value {
		return fmt.Errorf("%w: expected %s, got %s", ErrETagMismatch, got, value)
	}

	return nil
}
