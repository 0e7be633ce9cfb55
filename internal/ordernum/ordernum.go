// Package ordernum composes the human-facing order identifier from a fixed
// prefix and an allocated sequence value, and sanitizes operator overrides.
package ordernum

import (
	"fmt"
	"strings"
)

const (
	// DefaultPrefix is the fixed order prefix used when none is configured.
	DefaultPrefix = "BR1940"
	// DefaultSeparator joins the prefix and the padded sequence.
	DefaultSeparator = "-"
	// MinWidth is the minimum digit width of the padded sequence.
	MinWidth = 4
	// FallbackSequence is the placeholder shown while allocation is pending
	// or failed. It is a display value only, never a reservation.
	FallbackSequence = 1
)

// Format zero-pads sequence to at least minWidth digits and joins it with the
// prefix. Width is a minimum, never a maximum: sequences wider than minWidth
// are not truncated.
func Format(prefix, separator string, sequence int64, minWidth int) string {
	if minWidth <= 0 {
		minWidth = MinWidth
	}
	return fmt.Sprintf("%s%s%0*d", prefix, separator, minWidth, sequence)
}

// Fallback returns the non-reserving placeholder number for a prefix.
func Fallback(prefix, separator string, minWidth int) string {
	return Format(prefix, separator, FallbackSequence, minWidth)
}

// SanitizeOverride strips every non-digit character from an operator edit.
// Stray characters are dropped, not rejected, so the override stays editable
// keystroke by keystroke: "99a99" becomes "9999".
func SanitizeOverride(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidOverride reports whether a sanitized override is an acceptable order
// number suffix: digits only and at least minWidth characters long.
func ValidOverride(sanitized string, minWidth int) bool {
	if minWidth <= 0 {
		minWidth = MinWidth
	}
	if len(sanitized) < minWidth {
		return false
	}
	for _, r := range sanitized {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Final picks the number persisted with the sale: the sanitized override when
// valid, otherwise the formatted display value. Overrides never re-invoke the
// allocator; the underlying sequence value stays consumed either way.
func Final(display, override, prefix, separator string, minWidth int) string {
	sanitized := SanitizeOverride(override)
	if ValidOverride(sanitized, minWidth) {
		return prefix + separator + sanitized
	}
	return display
}
