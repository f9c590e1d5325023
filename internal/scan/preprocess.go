// Package scan contains the source-code preprocessing and signal
// detection used by the risk checks. Everything here is pure.
package scan

// PreprocessResult is the outcome of blanking comments and literals out of
// a source text. Cleaned has the same length in characters as the input:
// removed spans are overwritten with spaces (newlines preserved) so match
// offsets stay meaningful for evidence reporting.
type PreprocessResult struct {
	Cleaned  string
	Comments int
	Strings  int
	Failed   bool
}

// isEscaped reports whether the rune at index is preceded by an odd number
// of consecutive backslashes.
func isEscaped(runes []rune, index int) bool {
	slashes := 0
	for cursor := index - 1; cursor >= 0 && runes[cursor] == '\\'; cursor-- {
		slashes++
	}
	return slashes%2 == 1
}

func blankRange(runes []rune, start, end int) {
	for cursor := start; cursor < end; cursor++ {
		if runes[cursor] != '\n' {
			runes[cursor] = ' '
		}
	}
}

// Preprocess blanks // line comments, /* */ block comments (non-nested)
// and quoted literals ("", '', ``) from the text so that signal patterns
// cannot match inside non-executable spans. On any unexpected failure the
// original text is returned unmodified with Failed set; scanning degrades
// to raw text rather than aborting.
func Preprocess(text string) (result PreprocessResult) {
	defer func() {
		if recover() != nil {
			result = PreprocessResult{Cleaned: text, Failed: true}
		}
	}()

	runes := []rune(text)
	comments := 0
	strings := 0
	index := 0

	for index < len(runes) {
		char := runes[index]
		var next rune
		if index+1 < len(runes) {
			next = runes[index+1]
		}

		if char == '/' && next == '/' {
			comments++
			start := index
			index += 2
			for index < len(runes) && runes[index] != '\n' {
				index++
			}
			blankRange(runes, start, index)
			continue
		}

		if char == '/' && next == '*' {
			comments++
			start := index
			index += 2
			for index < len(runes) {
				if runes[index] == '*' && index+1 < len(runes) && runes[index+1] == '/' {
					index += 2
					break
				}
				index++
			}
			blankRange(runes, start, index)
			continue
		}

		if (char == '"' || char == '\'' || char == '`') && !isEscaped(runes, index) {
			strings++
			quote := char
			start := index
			index++
			for index < len(runes) {
				if runes[index] == quote && !isEscaped(runes, index) {
					index++
					break
				}
				index++
			}
			blankRange(runes, start, index)
			continue
		}

		index++
	}

	return PreprocessResult{
		Cleaned:  string(runes),
		Comments: comments,
		Strings:  strings,
	}
}
