package pacific

import "strings"

// Token selects a relative date window on the dashboard
type Token string

// supported tokens
const (
	Token24h    Token = "24h"
	Token7d     Token = "7d"
	Token30d    Token = "30d"
	Token90d    Token = "90d"
	Token1y     Token = "1y"
	TokenCustom Token = "custom"
)

// Tokens lists every supported token in UI order
var Tokens = []Token{Token24h, Token7d, Token30d, Token90d, Token1y, TokenCustom}

// lookback is the number of days before today a rolling token starts at
var lookback = map[Token]int{
	Token24h: 0,
	Token7d:  6,
	Token30d: 29,
	Token90d: 89,
}

// Known reports whether t is one of the supported tokens
func (t Token) Known() bool {
	for _, k := range Tokens {
		if t == k {
			return true
		}
	}
	return false
}

// String returns the raw token
func (t Token) String() string { return string(t) }

// ParseToken normalizes s; unknown or empty values fall back to 24h
func ParseToken(s string) Token {
	t := Token(strings.ToLower(strings.TrimSpace(s)))
	if t.Known() {
		return t
	}
	return Token24h
}
