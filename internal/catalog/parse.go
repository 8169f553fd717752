package catalog

import (
	"regexp"
	"store-route-service/internal/domain"
	"strconv"
	"strings"
)

var (
	separatorRe = regexp.MustCompile(`[,\s;|]+`)
	codeRe      = regexp.MustCompile(`(?i)^([a-z]{1,10})\s*(\d{1,3})$`)
	lettersRe   = regexp.MustCompile(`(?i)^[a-z]{1,10}$`)
	digitsRe    = regexp.MustCompile(`^\d{1,3}$`)
	runRe       = regexp.MustCompile(`(?i)([a-z]{1,10})(\d{1,3})`)
)

// ParseCode parses a single token such as "l5", "fo70" or "Linella12".
func (bs Brands) ParseCode(token string) (domain.StoreKey, bool) {
	m := codeRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return domain.StoreKey{}, false
	}
	code, ok := bs.Normalize(m[1])
	if !ok {
		return domain.StoreKey{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return domain.StoreKey{}, false
	}
	return domain.StoreKey{Brand: code, Number: n}, true
}

// ParseCodes extracts store keys from free text like "l5 c30, fo70" in input order.
// A brand word followed by a separate number ("lin 5") counts as one code.
// Tokens that are not codes are returned in rejected.
func (bs Brands) ParseCodes(text string) (keys []domain.StoreKey, rejected []string) {
	tokens := separatorRe.Split(strings.TrimSpace(text), -1)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "" {
			continue
		}
		if lettersRe.MatchString(tok) && i+1 < len(tokens) && digitsRe.MatchString(tokens[i+1]) {
			tok += tokens[i+1]
			i++
		}
		if k, ok := bs.ParseCode(tok); ok {
			keys = append(keys, k)
			continue
		}
		if run, ok := bs.splitRun(tok); ok {
			keys = append(keys, run...)
			continue
		}
		rejected = append(rejected, tok)
	}
	return keys, rejected
}

// splitRun reads a token of back-to-back codes such as "l5c30fo70".
// Every part must be a known code and the parts must cover the whole token.
func (bs Brands) splitRun(tok string) ([]domain.StoreKey, bool) {
	matches := runRe.FindAllStringSubmatchIndex(tok, -1)
	if len(matches) < 2 {
		return nil, false
	}

	keys := make([]domain.StoreKey, 0, len(matches))
	end := 0
	for _, m := range matches {
		if m[0] != end {
			return nil, false
		}
		k, ok := bs.ParseCode(tok[m[0]:m[1]])
		if !ok {
			return nil, false
		}
		keys = append(keys, k)
		end = m[1]
	}
	if end != len(tok) {
		return nil, false
	}
	return keys, true
}
