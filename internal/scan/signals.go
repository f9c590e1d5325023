package scan

import "regexp"

// Strength tags how decisive a pattern is.
type Strength string

// Pattern strengths.
const (
	Strong Strength = "strong"
	Weak   Strength = "weak"
)

// Pattern is a named detector run over preprocessed source.
type Pattern struct {
	Name     string
	Regex    *regexp.Regexp
	Strength Strength
}

// NewPattern compiles a case-insensitive detector. A pattern whose
// expression fails to compile carries a nil Regex and is skipped at scan
// time, so one broken detector cannot suppress the rest.
func NewPattern(name, expr string, strength Strength) Pattern {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		re = nil
	}
	return Pattern{Name: name, Regex: re, Strength: strength}
}

// Match is one occurrence of a pattern in the cleaned text.
type Match struct {
	Name     string
	Strength Strength
	Pattern  string
	Text     string
	Index    int
}

// FindSignals runs every pattern globally over the cleaned text and
// reports all non-overlapping occurrences.
func FindSignals(cleaned string, patterns []Pattern) []Match {
	var matches []Match

	for _, pattern := range patterns {
		if pattern.Regex == nil {
			continue
		}
		for _, loc := range pattern.Regex.FindAllStringIndex(cleaned, -1) {
			matches = append(matches, Match{
				Name:     pattern.Name,
				Strength: pattern.Strength,
				Pattern:  pattern.Regex.String(),
				Text:     cleaned[loc[0]:loc[1]],
				Index:    loc[0],
			})
		}
	}

	return matches
}

// HasStrength reports whether any match carries the given strength.
func HasStrength(matches []Match, strength Strength) bool {
	for _, m := range matches {
		if m.Strength == strength {
			return true
		}
	}
	return false
}

// FormatEvidence renders the fixed preprocessing summary line plus one
// line per match naming the pattern that fired.
func FormatEvidence(matches []Match, pre PreprocessResult) []string {
	preprocessLine := "Preprocess: comments/strings removed via source scan."
	if pre.Failed {
		preprocessLine = "Preprocess: failed (fallback raw) via source scan."
	}

	lines := []string{preprocessLine}
	for _, m := range matches {
		lines = append(lines, "Matched: "+m.Name+" ("+m.Pattern+") via source scan.")
	}
	return lines
}
