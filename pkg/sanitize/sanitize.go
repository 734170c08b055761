// Package sanitize guards machine inputs that arrive from untrusted callers.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 64KB, enough for any tape a request should carry.
	DefaultMaxInputSize = 65536
	// EnvMaxInputSize overrides the default limit.
	EnvMaxInputSize = "TURING_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrControlChar   = errors.New("input contains control characters")
)

// Input checks input against limit bytes (limit <= 0 falls back to the
// environment, then to DefaultMaxInputSize). Offending input is rejected, never
// rewritten.
func Input(input string, limit int) error {
	if limit <= 0 {
		limit = MaxInputSize()
	}
	if len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}
	for i, r := range input {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %U at byte %d", ErrControlChar, r, i)
		}
	}
	return nil
}

// MaxInputSize resolves the limit from EnvMaxInputSize.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
