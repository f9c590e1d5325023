package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess_CleanInputIsUnchanged(t *testing.T) {
	text := "function transfer(address to, uint256 amount) public returns (bool) {\n    return true;\n}\n"
	result := Preprocess(text)

	assert.Equal(t, text, result.Cleaned)
	assert.Zero(t, result.Comments)
	assert.Zero(t, result.Strings)
	assert.False(t, result.Failed)
}

func TestPreprocess_BlanksLineComments(t *testing.T) {
	result := Preprocess("a = 1; // blacklist here\nb = 2;")

	assert.NotContains(t, result.Cleaned, "blacklist")
	assert.Contains(t, result.Cleaned, "a = 1;")
	assert.Contains(t, result.Cleaned, "b = 2;")
	assert.Equal(t, 1, result.Comments)
}

func TestPreprocess_BlanksBlockCommentsPreservingNewlines(t *testing.T) {
	text := "a;\n/* first\nsecond\nthird */\nb;"
	result := Preprocess(text)

	assert.Equal(t, strings.Count(text, "\n"), strings.Count(result.Cleaned, "\n"))
	assert.NotContains(t, result.Cleaned, "first")
	assert.Contains(t, result.Cleaned, "a;")
	assert.Contains(t, result.Cleaned, "b;")
	assert.Equal(t, 1, result.Comments)
}

func TestPreprocess_UnterminatedBlockCommentRunsToEnd(t *testing.T) {
	result := Preprocess("a; /* never closed blacklist")

	assert.NotContains(t, result.Cleaned, "blacklist")
	assert.Equal(t, 1, result.Comments)
}

func TestPreprocess_BlanksStringLiterals(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"double quoted", `x = "blacklist inside";`},
		{"single quoted", `y = 'blacklist inside';`},
		{"backtick quoted", "z = `blacklist inside`;"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Preprocess(tc.text)
			assert.NotContains(t, result.Cleaned, "blacklist")
			assert.Equal(t, 1, result.Strings)
		})
	}
}

func TestPreprocess_EscapedQuotesDoNotTerminate(t *testing.T) {
	result := Preprocess(`x = "a \" blacklist \" b"; done();`)

	assert.NotContains(t, result.Cleaned, "blacklist")
	assert.Contains(t, result.Cleaned, "done();")
	assert.Equal(t, 1, result.Strings)
}

func TestPreprocess_EvenBackslashCountTerminates(t *testing.T) {
	// The second quote is preceded by two backslashes, so it closes the
	// literal and "after" stays in code.
	result := Preprocess(`x = "path\\" + after;`)

	assert.Contains(t, result.Cleaned, "after")
	assert.Equal(t, 1, result.Strings)
}

func TestPreprocess_MultiByteCharacters(t *testing.T) {
	text := "// コメント blacklist\ntoken = 1; // ünïcode"
	result := Preprocess(text)

	assert.NotContains(t, result.Cleaned, "blacklist")
	assert.Contains(t, result.Cleaned, "token = 1;")
	assert.Equal(t, 2, result.Comments)
}

func TestPreprocess_SameCharacterLength(t *testing.T) {
	text := "a = 1; /* note */ b = \"s\"; // tail"
	result := Preprocess(text)

	require.Equal(t, len([]rune(text)), len([]rune(result.Cleaned)))
}

func TestPreprocess_SignalSafety(t *testing.T) {
	patterns := []Pattern{NewPattern("blacklist", `blacklist`, Strong)}

	commented := Preprocess("// blacklist should not trigger here")
	assert.Empty(t, FindSignals(commented.Cleaned, patterns))

	code := Preprocess("function blacklistAddress(address account) public onlyOwner {")
	assert.Len(t, FindSignals(code.Cleaned, patterns), 1)
}
