package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/gmgapp/gmg/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello, World!", "Hello, World!"},
		{"safe formatting", "<p><strong>Bold</strong> and <em>italic</em></p>", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"script removed", "<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
		{"list kept", "<ul><li>Item 1</li><li>Item 2</li></ul>", "<ul><li>Item 1</li><li>Item 2</li></ul>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_RemovesDangerousAttributes(t *testing.T) {
	for _, input := range []string{
		`<button onclick="alert('xss')">Click</button>`,
		`<a href="javascript:alert('xss')">Click</a>`,
	} {
		got := htmlsanitize.Sanitize(input)
		if strings.Contains(got, "onclick") || strings.Contains(got, "javascript:") {
			t.Errorf("Sanitize(%q) = %q, dangerous content kept", input, got)
		}
	}
}

func TestSanitize_RemovesIframe(t *testing.T) {
	got := htmlsanitize.Sanitize(`<p>Content</p><iframe src="https://evil.com"></iframe>`)
	if strings.Contains(got, "iframe") {
		t.Error("expected iframe to be removed")
	}
	if !strings.Contains(got, "Content") {
		t.Error("expected safe content to be preserved")
	}
}

func TestSanitizeToHTML(t *testing.T) {
	if got := htmlsanitize.SanitizeToHTML("<p>Hello</p><script>x</script>"); got != template.HTML("<p>Hello</p>") {
		t.Errorf("got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	tests := map[string]string{
		"  Mina  ":                  "Mina",
		"<b>Mina</b>":               "Mina",
		"<script>alert(1)</script>": "",
		"Tom & Jerry":               "Tom & Jerry",
	}
	for in, want := range tests {
		if got := htmlsanitize.StripTags(in); got != want {
			t.Errorf("StripTags(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsPlainText(t *testing.T) {
	tests := map[string]bool{
		"":              true,
		"Hello, World!": true,
		"<p>Hello</p>":  false,
		"5 < 10":        true,
		"5 > 3":         true,
	}
	for in, want := range tests {
		if got := htmlsanitize.IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	if got := htmlsanitize.PlainTextToHTML("Line 1\nLine 2"); got != "<p>Line 1<br>Line 2</p>" {
		t.Errorf("got %q", got)
	}
	if got := htmlsanitize.PlainTextToHTML("A & B"); got != "<p>A &amp; B</p>" {
		t.Errorf("got %q", got)
	}
	if got := htmlsanitize.PlainTextToHTML("<script>"); strings.Contains(got, "<script>") {
		t.Error("expected HTML to be escaped")
	}
}

func TestPrepareForDisplay(t *testing.T) {
	if got := htmlsanitize.PrepareForDisplay("Bring snacks\nand water"); got != "<p>Bring snacks<br>and water</p>" {
		t.Errorf("plain text: got %q", got)
	}
	if got := htmlsanitize.PrepareForDisplay("<p>ok</p><script>x</script>"); got != "<p>ok</p>" {
		t.Errorf("html: got %q", got)
	}
}
