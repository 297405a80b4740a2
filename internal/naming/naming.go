// Package naming holds the rules for user-chosen names and generated codes.
package naming

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	ChannelNameMinLength = 3
	ChannelNameMaxLength = 80
	JoinCodeLength       = 6
)

// whitespaceRun matches ASCII whitespace, vertical tab, Unicode separators
// (no-break, ideographic, line and paragraph) and the BOM.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// NormalizeChannelName replaces every run of whitespace with a single hyphen
// and lowercases the result: "Plan  Budget" becomes "plan-budget".
func NormalizeChannelName(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(name, "-"))
}

// ValidChannelName reports whether the normalized name has an acceptable length.
func ValidChannelName(name string) bool {
	n := len([]rune(NormalizeChannelName(name)))
	return n >= ChannelNameMinLength && n <= ChannelNameMaxLength
}

const joinCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateJoinCode returns a random lowercase alphanumeric invite code.
func GenerateJoinCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := 0; i < JoinCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeJoinCode makes join codes case-insensitive.
func NormalizeJoinCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
