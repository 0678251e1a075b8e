package pagetext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_SkipsScriptAndStyle(t *testing.T) {
	page := `
<body>
    <div id="main">Hello</div>
    <script>alert("hi")</script>
    <style>.x {}</style>
</body>`

	out := Extract(page, nil)

	assert.Equal(t, "Hello", out)
}

func TestExtract_SkipsComments(t *testing.T) {
	page := `
<body>
    <!-- comment -->
    <div>Text</div>
</body>`

	assert.Equal(t, "Text", Extract(page, &DefaultConfig))
}

func TestExtract_SkipsHiddenElements(t *testing.T) {
	page := `
<body>
    <p>Visible</p>
    <p hidden>Hidden attr</p>
    <p style="display: none">Hidden style</p>
    <span aria-hidden="true">Icon</span>
    <p style="visibility:hidden">Invisible</p>
</body>`

	assert.Equal(t, "Visible", Extract(page, nil))
}

func TestExtract_BlocksBecomeLines(t *testing.T) {
	page := `<html><head><title>Ignored</title></head><body>
<h1>Title</h1>
<p>First   paragraph with <a href="#">a link</a>.</p>
<ul><li>One</li><li>Two</li></ul>
</body></html>`

	out := Extract(page, nil)

	assert.Equal(t, "Title\nFirst paragraph with a link .\nOne\nTwo", out)
	assert.NotContains(t, out, "Ignored")
}

func TestExtract_NoBody(t *testing.T) {
	assert.Equal(t, "plain text", Extract("plain   text", nil))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "a b c", TruncateWords(" a\n b\t c ", 10))
	assert.Equal(t, "a b", TruncateWords("a b c d", 2))
	assert.Empty(t, TruncateWords("   ", 5))

	long := strings.Repeat("word ", 10050)
	assert.Len(t, strings.Fields(TruncateWords(long, 10000)), 10000)
}
