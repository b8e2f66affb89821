package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveReceipt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.json")

	r := Receipt{
		TargetURL:   "https://example.com/a",
		ArchivedURL: "https://archive.ph/abc123",
		Outcome:     "success",
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		DurationMS:  4200,
	}
	if err := SaveReceipt(path, r); err != nil {
		t.Fatalf("SaveReceipt failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read receipt: %v", err)
	}

	var got Receipt
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("receipt is not valid JSON: %v", err)
	}
	if got.ArchivedURL != r.ArchivedURL || got.Outcome != "success" {
		t.Errorf("receipt round trip mismatch: %+v", got)
	}
}

func TestCleanHTML_StripsNoise(t *testing.T) {
	in := `<html><head><script>alert(1)</script></head><body>
		<p class="x" style="color:red">Hello</p>
		<iframe src="https://bad.test"></iframe>
		<a href="/next" onclick="evil()" title="t">link</a>
	</body></html>`

	out, err := CleanHTML(in)
	if err != nil {
		t.Fatalf("CleanHTML failed: %v", err)
	}

	for _, banned := range []string{"<script", "<iframe", "onclick", "style="} {
		if strings.Contains(out, banned) {
			t.Errorf("cleaned HTML still contains %q", banned)
		}
	}
	if !strings.Contains(out, "Hello") {
		t.Error("cleaned HTML lost text content")
	}
	if !strings.Contains(out, `href="/next"`) {
		t.Error("cleaned HTML lost anchor href")
	}
}

func TestSaveMarkdown_ResolvesLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")

	s := Snapshot{
		URL:  "https://archive.ph/abc123",
		HTML: `<html><body><h1>Title</h1><p>Read <a href="/other">more</a>.</p></body></html>`,
	}
	if err := SaveMarkdown(s, path); err != nil {
		t.Fatalf("SaveMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read markdown: %v", err)
	}
	got := string(data)

	if !strings.Contains(got, "# Title") {
		t.Errorf("expected heading in markdown, got:\n%s", got)
	}
	if !strings.Contains(got, "https://archive.ph/other") {
		t.Errorf("expected resolved link in markdown, got:\n%s", got)
	}
}
