package quote

import "strings"

// Class is the market class a symbol is routed by.
type Class int

const (
	Forex Class = iota
	Crypto
)

func (c Class) String() string {
	if c == Crypto {
		return "crypto"
	}
	return "forex"
}

// CryptoSuffixes are the quote assets that mark a symbol as an exchange pair.
var CryptoSuffixes = []string{"USDT", "BTC"}

// yahooMarker is appended to forex symbols in Yahoo's notation.
const yahooMarker = "=X"

// Normalize upper-cases and trims a user-supplied symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Classify reports the class of symbol. It looks only at the suffix.
func Classify(symbol string) Class {
	s := Normalize(symbol)
	for _, suf := range CryptoSuffixes {
		if strings.HasSuffix(s, suf) {
			return Crypto
		}
	}
	return Forex
}

// ProviderSymbol returns symbol in the notation of the provider its class routes to.
func ProviderSymbol(symbol string) string {
	s := Normalize(symbol)
	if Classify(s) == Crypto {
		return s
	}
	return s + yahooMarker
}

// Currency returns the quote currency implied by symbol: the matching crypto
// suffix, or the last three letters of a forex pair.
func Currency(symbol string) string {
	s := Normalize(symbol)
	for _, suf := range CryptoSuffixes {
		if strings.HasSuffix(s, suf) {
			return suf
		}
	}
	if len(s) < 3 {
		return s
	}
	return s[len(s)-3:]
}
