package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

type Replacement struct {
	From string
	To   string
}

type Pattern struct {
	Re   *regexp.Regexp
	With string
}

// Ruleset turns a raw hardware model label into its canonical matching key.
// Replacements run first and in order: each replaces all occurrences, and a
// later entry may act on text inserted by an earlier one, so ordering is part
// of the rule data (e.g. 코어 울트라 must be handled before 코어). Patterns
// then insert the hyphen separator for model-numbering schemes that are often
// written without one, and finally everything outside the allowed character
// set is stripped and whitespace collapsed.
type Ruleset struct {
	Lowercase    bool
	Replacements []Replacement
	Patterns     []Pattern
	Strip        *regexp.Regexp
	StripWith    string
}

var reSpaces = regexp.MustCompile(`\s+`)

func (r Ruleset) Apply(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return ""
	}
	if r.Lowercase {
		s = strings.ToLower(s)
	}
	for _, rep := range r.Replacements {
		s = strings.ReplaceAll(s, rep.From, rep.To)
	}
	for _, p := range r.Patterns {
		s = p.Re.ReplaceAllString(s, p.With)
	}
	s = r.Strip.ReplaceAllString(s, r.StripWith)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var (
	// Word characters plus whitespace; CPU keys additionally keep the hyphen
	// the pattern rules insert.
	stripToSpace  = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	stripKeepDash = regexp.MustCompile(`[^\p{L}\p{N}_\s\-]`)
)

// CPU maps Korean CPU vendor terms to their catalog spelling and hyphenates
// the model-number schemes that appear unhyphenated in vendor sheets
// (A10-series APUs, FX-series, Core i3/i5/i7/i9). Case is preserved: the
// reference catalogs key CPUs in vendor capitalization.
var CPU = Ruleset{
	Replacements: []Replacement{
		{From: "코어 울트라", To: "Core Ultra"},
		{From: "코어", To: "Intel Core "},
		{From: "라이젠", To: "AMD Ryzen "},
		{From: "펜티엄 골드 ", To: "Intel Pentium Gold "},
		{From: "애슬론 ", To: "AMD Athlon "},
		{From: "셀러론 ", To: "Intel Celeron "},
	},
	Patterns: []Pattern{
		{Re: regexp.MustCompile(`(?i)\b(A\d{2})(\d{4})([A-Z]*)\b`), With: "${1}-${2}${3}"},
		{Re: regexp.MustCompile(`(?i)\b(FX)(\d{4})([A-Z]*)\b`), With: "${1}-${2}${3}"},
		{Re: regexp.MustCompile(`(?i)\b(i[3579])(\d{4})([A-Z]*)\b`), With: "${1}-${2}${3}"},
	},
	Strip:     stripKeepDash,
	StripWith: "",
}

// GPU lowercases and maps Korean GPU brand terms; punctuation becomes a space
// so that hyphenation variants collapse to the same key.
var GPU = Ruleset{
	Lowercase: true,
	Replacements: []Replacement{
		{From: "지포스", To: "geforce"},
		{From: "라데온", To: "radeon"},
		{From: "아크", To: "arc"},
		{From: "그래픽스", To: "graphics"},
	},
	Strip:     stripToSpace,
	StripWith: " ",
}

var reMemoryType = regexp.MustCompile(`(?i)\s+gddr\d+x?`)

// StripMemoryType removes memory-type tokens such as "GDDR6" or "gddr6x".
// Retail labels carry them, catalog chipset names do not.
func StripMemoryType(label string) string {
	return reMemoryType.ReplaceAllString(strings.TrimSpace(label), "")
}

var reCapacity = regexp.MustCompile(`(?i)^(.*?)(?:\s+(\d+)\s*gb)?$`)

// SplitCapacity separates a trailing "<n> GB" VRAM token from the chipset
// name. The capacity is informational; matching only uses the model part.
func SplitCapacity(label string) (string, *int) {
	s := strings.TrimSpace(label)
	m := reCapacity.FindStringSubmatch(s)
	if m == nil {
		return s, nil
	}
	model := strings.TrimSpace(m[1])
	if m[2] == "" {
		return model, nil
	}
	capacity, err := strconv.Atoi(m[2])
	if err != nil {
		return model, nil
	}
	return model, &capacity
}
