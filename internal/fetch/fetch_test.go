package fetch

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	blocked := []string{
		"ftp://example.com/file",
		"file:///etc/passwd",
		"http://127.0.0.1/admin",
		"http://10.0.0.8/internal",
		"http://192.168.1.1/router",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]/",
		"http://0.0.0.0/",
		"http:///nohost",
	}
	for _, u := range blocked {
		err := ValidateURL(u)
		require.Error(t, err, u)
		assert.True(t, eris.Is(err, ErrBlocked), u)
	}

	assert.NoError(t, ValidateURL("https://93.184.216.34/article"))
}

func TestHTMLToText(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>t</title><script>var x=1;</script></head>
	<body>
	<nav><a href="/">Home</a> <a href="/markets">Markets</a></nav>
	<article>
	<h1>SEC approves spot Bitcoin ETF</h1>
	<p>The Securities and Exchange Commission approved the first spot
	Bitcoin ETF on Wednesday.</p>
	<p>Subscribe to our newsletter for more.</p>
	<p>BTC $64,210 ETH $3,105 SOL $172 XRP $0.52</p>
	</article>
	<footer>All rights reserved.</footer>
	</body></html>`

	text, err := htmlToText([]byte(html))
	require.NoError(t, err)

	assert.Contains(t, text, "SEC approves spot Bitcoin ETF")
	assert.Contains(t, text, "Securities and Exchange Commission")
	assert.NotContains(t, text, "var x=1")
	assert.NotContains(t, text, "newsletter")
	assert.NotContains(t, text, "$64,210")
	assert.NotContains(t, text, "All rights reserved")
}

func TestCleanLinesDeduplicates(t *testing.T) {
	t.Parallel()

	lines := cleanLines([]string{"Breaking news.", "Breaking news.", "", "More detail."})
	assert.Equal(t, []string{"Breaking news.", "More detail."}, lines)
}

func TestIsTickerMenu(t *testing.T) {
	t.Parallel()

	assert.True(t, isTickerMenu("BTC $64,210 ETH $3,105 SOL $172"))
	assert.False(t, isTickerMenu("Bitcoin rose three percent on Wednesday after the approval."))
}

func TestCapText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 6000)
	capped := capText(long)
	assert.LessOrEqual(t, len(capped), maxTextChars)
	assert.False(t, strings.HasSuffix(capped, "wor"))
}
