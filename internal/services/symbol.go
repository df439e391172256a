package services

import (
	"fmt"
	"strings"

	"stockpulse-api/internal/models"
)

// IndexMarker prefixes index tickers such as ^NSEI and ^BSESN
const IndexMarker = "^"

// SymbolNormalizer maps user-entered tickers to the provider convention. It is
// the only place exchange suffixes are applied.
type SymbolNormalizer struct {
	defaultSuffix string
	suffixes      []string
}

// NewSymbolNormalizer builds a normalizer appending defaultSuffix to bare
// tickers. The default suffix is always treated as recognized so Normalize is
// idempotent.
func NewSymbolNormalizer(defaultSuffix string, recognized []string) *SymbolNormalizer {
	defaultSuffix = canonicalSuffix(defaultSuffix)
	n := &SymbolNormalizer{defaultSuffix: defaultSuffix}

	seen := map[string]bool{}
	for _, s := range append([]string{defaultSuffix}, recognized...) {
		s = canonicalSuffix(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		n.suffixes = append(n.suffixes, s)
	}
	return n
}

// DefaultSuffix returns the suffix appended to bare tickers
func (n *SymbolNormalizer) DefaultSuffix() string {
	return n.defaultSuffix
}

// Normalize uppercases raw and appends the default suffix unless it is an
// index or already carries a recognized suffix.
func (n *SymbolNormalizer) Normalize(raw string) (models.NormalizedSymbol, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.NormalizedSymbol{}, fmt.Errorf("%w: symbol is required", models.ErrInvalidSymbol)
	}

	resolved := strings.ToUpper(trimmed)
	isIndex := strings.HasPrefix(resolved, IndexMarker)
	if !isIndex && !n.hasRecognizedSuffix(resolved) {
		resolved += n.defaultSuffix
	}

	return models.NormalizedSymbol{
		Raw:      raw,
		Resolved: resolved,
		IsIndex:  isIndex,
	}, nil
}

func (n *SymbolNormalizer) hasRecognizedSuffix(s string) bool {
	for _, suffix := range n.suffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			return true
		}
	}
	return false
}

// YahooSymbol rewrites the Alpha Vantage Bombay suffix to Yahoo's
func YahooSymbol(s models.NormalizedSymbol) string {
	if strings.HasSuffix(s.Resolved, ".BSE") {
		return strings.TrimSuffix(s.Resolved, ".BSE") + ".BO"
	}
	return s.Resolved
}

func canonicalSuffix(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s != "" && !strings.HasPrefix(s, ".") {
		s = "." + s
	}
	return s
}
