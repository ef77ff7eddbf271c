package handler

import (
	"strings"
	"testing"
)

func TestRenderMarkdown_VideoEmbeds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		markdown     string
		wantSrc      string
		wantProvider string
	}{
		{
			name:         "youtube watch",
			markdown:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantSrc:      "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ",
			wantProvider: "youtube",
		},
		{
			name:         "youtube short link",
			markdown:     "https://youtu.be/dQw4w9WgXcQ",
			wantSrc:      "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ",
			wantProvider: "youtube",
		},
		{
			name:         "vimeo",
			markdown:     "https://vimeo.com/76979871",
			wantSrc:      "https://player.vimeo.com/video/76979871",
			wantProvider: "vimeo",
		},
		{
			name:         "loom",
			markdown:     "https://www.loom.com/share/abc123def",
			wantSrc:      "https://www.loom.com/embed/abc123def",
			wantProvider: "loom",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rendered, err := renderMarkdown(tt.markdown)
			if err != nil {
				t.Fatalf("render markdown: %v", err)
			}

			html := string(rendered)
			if !strings.Contains(html, "<iframe") {
				t.Fatalf("expected iframe in output, got: %s", html)
			}
			if !strings.Contains(html, tt.wantSrc) {
				t.Fatalf("expected iframe src to include %q, got: %s", tt.wantSrc, html)
			}
			if !strings.Contains(html, `data-video-provider="`+tt.wantProvider+`"`) {
				t.Fatalf("expected provider %q marker, got: %s", tt.wantProvider, html)
			}
			if strings.Contains(html, "autoplay") {
				t.Fatalf("iframe must not autoplay, got: %s", html)
			}
		})
	}
}

func TestRenderMarkdown_YouTubeStartTime(t *testing.T) {
	t.Parallel()

	rendered, err := renderMarkdown("<https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=1m2s>")
	if err != nil {
		t.Fatalf("render markdown: %v", err)
	}

	html := string(rendered)
	for _, want := range []string{"modestbranding=1", "rel=0", "start=62"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in iframe src, got: %s", want, html)
		}
	}
}

func TestRenderMarkdown_SkipsVideoEmbedInsideCodeFence(t *testing.T) {
	t.Parallel()

	rendered, err := renderMarkdown("```\nhttps://www.youtube.com/watch?v=dQw4w9WgXcQ\n```")
	if err != nil {
		t.Fatalf("render markdown: %v", err)
	}
	if strings.Contains(string(rendered), "<iframe") {
		t.Fatalf("expected no iframe inside code fence, got: %s", rendered)
	}
}

func TestRenderMarkdown_SkipsInlineVideoURL(t *testing.T) {
	t.Parallel()

	rendered, err := renderMarkdown("Watch it here: https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("render markdown: %v", err)
	}
	if strings.Contains(string(rendered), "<iframe") {
		t.Fatalf("expected inline url to remain a link, got: %s", rendered)
	}
}

func TestRenderMarkdown_RejectsLookalikeDomainsAndRawIframes(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://notyoutube.com/watch?v=dQw4w9WgXcQ",
		"https://vimeo.com.evil.io/76979871",
		`<iframe src="https://evil.example/embed"></iframe>`,
	}

	for _, markdown := range inputs {
		rendered, err := renderMarkdown(markdown)
		if err != nil {
			t.Fatalf("render markdown: %v", err)
		}

		html := string(rendered)
		for _, banned := range []string{"youtube-nocookie.com", "player.vimeo.com", `src="https://evil.example`} {
			if strings.Contains(html, banned) {
				t.Fatalf("unexpected embed %q for %q: %s", banned, markdown, html)
			}
		}
	}
}

func TestRenderMarkdown_StripsScripts(t *testing.T) {
	t.Parallel()

	rendered, err := renderMarkdown("# Title\n\n<script>alert(1)</script>\n\n**bold**")
	if err != nil {
		t.Fatalf("render markdown: %v", err)
	}

	html := string(rendered)
	if strings.Contains(html, "<script") {
		t.Fatalf("script should be sanitized, got: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected markdown rendering, got: %s", html)
	}
}
