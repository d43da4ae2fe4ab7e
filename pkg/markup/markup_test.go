package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "allowed vocabulary kept",
			in:   `<div class="info-card"><div class="info-row"><span class="info-label">When</span><span class="info-value">15:00</span></div></div>`,
			want: `<div class="info-card"><div class="info-row"><span class="info-label">When</span><span class="info-value">15:00</span></div></div>`,
		},
		{
			name: "unknown classes and attributes dropped",
			in:   `<p class="highlight evil" style="color:red" onclick="x()">Hi</p>`,
			want: `<p class="highlight">Hi</p>`,
		},
		{
			name: "unknown element unwrapped",
			in:   `<p>Go <a href="http://x">there</a></p>`,
			want: `<p>Go there</p>`,
		},
		{
			name: "script removed with content",
			in:   `<p>ok</p><script>alert(1)</script>`,
			want: `<p>ok</p>`,
		},
		{
			name: "line break normalized",
			in:   `one<br>two`,
			want: `one<br />two`,
		},
		{
			name: "text escaped",
			in:   `a < b & c`,
			want: `a &lt; b &amp; c`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestPlainText(t *testing.T) {
	in := `<h3>Budget</h3><ul><li>Review <strong>Q3</strong></li><li>Plan</li></ul><style>.x{}</style>`
	assert.Equal(t, "Budget Review Q3 Plan", PlainText(in))
	assert.Equal(t, "Tom & Jerry", PlainText("<p>Tom &amp; Jerry</p>"))
	assert.Equal(t, "", PlainText(""))
}

func TestParagraph(t *testing.T) {
	assert.Equal(t, "<p>a &lt;b&gt;</p>", Paragraph(" a <b> "))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 60))
	assert.Equal(t, "abc...", Excerpt("abcdef", 3))
	assert.Equal(t, "héé...", Excerpt("hééllo", 3))
}
