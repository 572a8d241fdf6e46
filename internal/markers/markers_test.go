package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestSample = `<manifest>
<!--START_PLUGINS_MANIFEST-->
<uses-permission android:name="android.permission.INTERNET"/>
<!--END_PLUGINS_MANIFEST-->
</manifest>
`

func TestExtract(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		start    string
		end      string
		expected string
	}{
		{
			name:     "payload between tokens",
			text:     manifestSample,
			start:    "<!--START_PLUGINS_MANIFEST-->",
			end:      "<!--END_PLUGINS_MANIFEST-->",
			expected: "<uses-permission android:name=\"android.permission.INTERNET\"/>\n",
		},
		{
			name:     "empty region",
			text:     "a\n//START_X\n//END_X\nb\n",
			start:    "//START_X",
			end:      "//END_X",
			expected: "",
		},
		{
			name:     "missing start token",
			text:     manifestSample,
			start:    "<!--START_NOPE-->",
			end:      "<!--END_PLUGINS_MANIFEST-->",
			expected: "",
		},
		{
			name:     "missing end token",
			text:     manifestSample,
			start:    "<!--START_PLUGINS_MANIFEST-->",
			end:      "<!--END_NOPE-->",
			expected: "",
		},
		{
			name:     "multi-line payload",
			text:     "#START_R\none\ntwo\n#END_R\n",
			start:    "#START_R",
			end:      "#END_R",
			expected: "one\ntwo\n",
		},
		{
			name:     "start token on unterminated final line",
			text:     "x\n//START_X",
			start:    "//START_X",
			end:      "//END_X",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extract(tc.text, tc.start, tc.end))
		})
	}
}

func TestReplace(t *testing.T) {
	t.Run("replaces payload and preserves token lines", func(t *testing.T) {
		out := Replace(manifestSample, "<!--START_PLUGINS_MANIFEST-->", "<!--END_PLUGINS_MANIFEST-->", "<meta-data/>\n")
		assert.Contains(t, out, "<!--START_PLUGINS_MANIFEST-->\n<meta-data/>\n<!--END_PLUGINS_MANIFEST-->")
		assert.NotContains(t, out, "uses-permission")
	})

	t.Run("missing token returns input unchanged", func(t *testing.T) {
		assert.Equal(t, manifestSample, Replace(manifestSample, "<!--START_NOPE-->", "<!--END_NOPE-->", "x"))
	})

	t.Run("payload without trailing newline keeps end token on its own line", func(t *testing.T) {
		out := Replace("//START_X\n//END_X\n", "//START_X", "//END_X", "line")
		assert.Equal(t, "//START_X\nline\n//END_X\n", out)
	})

	t.Run("empty payload empties the region", func(t *testing.T) {
		out := Replace("//START_X\nold\n//END_X\n", "//START_X", "//END_X", "")
		assert.Equal(t, "//START_X\n//END_X\n", out)
	})
}

// Replacing a region with its own extracted payload must reproduce the input
// byte for byte.
func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		start string
		end   string
	}{
		{"xml region", manifestSample, "<!--START_PLUGINS_MANIFEST-->", "<!--END_PLUGINS_MANIFEST-->"},
		{"empty region", "//START_X\n//END_X\n", "//START_X", "//END_X"},
		{"surrounded region", "prefix\n#START_R\na\nb\nc\n#END_R\nsuffix", "#START_R", "#END_R"},
		{"no markers at all", "no markers at all\n", "//START_X", "//END_X"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload := Extract(tc.text, tc.start, tc.end)
			assert.Equal(t, tc.text, Replace(tc.text, tc.start, tc.end, payload))
		})
	}
}

func TestTokens(t *testing.T) {
	testCases := []struct {
		style CommentStyle
		start string
		end   string
	}{
		{StyleXML, "<!--START_STYLES-->", "<!--END_STYLES-->"},
		{StyleSlash, "//START_STYLES", "//END_STYLES"},
		{StyleHash, "#START_STYLES", "#END_STYLES"},
	}
	for _, tc := range testCases {
		start, end := tc.style.Tokens("STYLES")
		require.Equal(t, tc.start, start)
		require.Equal(t, tc.end, end)
	}
}
