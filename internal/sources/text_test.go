package sources

import (
	"strings"
	"testing"
)

func TestCompact(t *testing.T) {
	got := Compact("  hello\n\t world  ")
	if got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
	if Compact("") != "" {
		t.Error("expected empty string to stay empty")
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>Th&amp;is is <b>bold</b>   text</p>")
	if got != "Th&is is bold text" {
		t.Errorf("expected entities decoded and tags stripped, got %q", got)
	}
}

func TestStripHTMLDropsScript(t *testing.T) {
	got := StripHTML("<p>visible</p><script>var hidden = 1;</script>")
	if strings.Contains(got, "hidden") {
		t.Errorf("expected script contents dropped, got %q", got)
	}
	if !strings.Contains(got, "visible") {
		t.Errorf("expected visible text kept, got %q", got)
	}
}

func TestStripHTMLPlainText(t *testing.T) {
	if got := StripHTML("just plain   text"); got != "just plain text" {
		t.Errorf("expected compacted plain text, got %q", got)
	}
	if StripHTML("") != "" {
		t.Error("expected empty input to stay empty")
	}
}

func TestSnippetShortTextUnchanged(t *testing.T) {
	if got := Snippet("short  text", 180); got != "short text" {
		t.Errorf("expected compacted passthrough, got %q", got)
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := Snippet(long, 180)
	if len([]rune(got)) != 180 {
		t.Errorf("expected 180 runes, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-5:])
	}
}

func TestSnippetMultiByteSafe(t *testing.T) {
	long := strings.Repeat("日", 300)
	got := Snippet(long, 180)
	if len([]rune(got)) != 180 {
		t.Errorf("expected 180 runes, got %d", len([]rune(got)))
	}
	if strings.Contains(got, "�") {
		t.Error("snippet split a multi-byte character")
	}
}
