package handler

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	videoEmbedLinePattern = regexp.MustCompile(`^\s*<?(https?://[^\s>]+)>?\s*$`)
	videoEmbedSrcPattern  = regexp.MustCompile(
		`^https://(?:www\.youtube-nocookie\.com/embed/|player\.vimeo\.com/video/|www\.loom\.com/embed/)`,
	)
	videoEmbedTimePattern = regexp.MustCompile(`(?i)(\d+)(h|m|s)`)
	listIndexPattern      = regexp.MustCompile(`^\d+\.\s+`)
)

// buildContentSanitizer extends the UGC policy with iframes from known video hosts.
func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video-provider").OnElements("div")
	policy.AllowAttrs("src").Matching(videoEmbedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}

type videoEmbed struct {
	Provider string
	EmbedURL string
}

// applyVideoEmbeds replaces a paragraph consisting of a single video link with
// an iframe. Code blocks, quotes and list items are left alone.
func applyVideoEmbeds(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	fence := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if marker := detectFenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || isIndentedCodeLine(line) || shouldSkipEmbedLine(trimmed) {
			continue
		}

		match := videoEmbedLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		embed, ok := parseVideoEmbed(match[1])
		if !ok {
			continue
		}
		lines[i] = buildVideoEmbedHTML(embed)
	}

	return strings.Join(lines, "\n")
}

func detectFenceMarker(line string) string {
	if strings.HasPrefix(line, "```") {
		return "```"
	}
	if strings.HasPrefix(line, "~~~") {
		return "~~~"
	}
	return ""
}

func isIndentedCodeLine(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func shouldSkipEmbedLine(line string) bool {
	if line == "" || strings.HasPrefix(line, ">") {
		return true
	}
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	return listIndexPattern.MatchString(line)
}

func parseVideoEmbed(raw string) (videoEmbed, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return videoEmbed{}, false
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case host == "youtu.be" || isHostOrSubdomain(host, "youtube.com"):
		return parseYouTubeEmbed(parsed)
	case isHostOrSubdomain(host, "vimeo.com"):
		return parseVimeoEmbed(parsed)
	case isHostOrSubdomain(host, "loom.com"):
		return parseLoomEmbed(parsed)
	}
	return videoEmbed{}, false
}

func parseYouTubeEmbed(u *url.URL) (videoEmbed, bool) {
	var videoID string
	path := strings.Trim(u.Path, "/")

	if strings.EqualFold(u.Hostname(), "youtu.be") {
		videoID = path
	} else {
		switch {
		case path == "watch":
			videoID = u.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"):
			videoID = strings.TrimPrefix(path, "shorts/")
		case strings.HasPrefix(path, "embed/"):
			videoID = strings.TrimPrefix(path, "embed/")
		case strings.HasPrefix(path, "live/"):
			videoID = strings.TrimPrefix(path, "live/")
		}
	}
	videoID, _, _ = strings.Cut(videoID, "/")
	if videoID == "" {
		return videoEmbed{}, false
	}

	values := url.Values{}
	values.Set("rel", "0")
	values.Set("modestbranding", "1")
	if start := parseYouTubeStart(u); start > 0 {
		values.Set("start", strconv.Itoa(start))
	}

	return videoEmbed{
		Provider: "youtube",
		EmbedURL: "https://www.youtube-nocookie.com/embed/" + url.PathEscape(videoID) + "?" + values.Encode(),
	}, true
}

func parseYouTubeStart(u *url.URL) int {
	query := u.Query()
	if value := query.Get("start"); value != "" {
		return parseYouTubeTime(value)
	}
	return parseYouTubeTime(query.Get("t"))
}

// parseYouTubeTime accepts plain seconds or the 1h2m3s form.
func parseYouTubeTime(value string) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(trimmed); err == nil {
		return max(seconds, 0)
	}

	total := 0
	for _, match := range videoEmbedTimePattern.FindAllStringSubmatch(trimmed, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total
}

func parseVimeoEmbed(u *url.URL) (videoEmbed, bool) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	videoID := segments[len(segments)-1]
	if _, err := strconv.ParseUint(videoID, 10, 64); err != nil {
		return videoEmbed{}, false
	}
	return videoEmbed{Provider: "vimeo", EmbedURL: "https://player.vimeo.com/video/" + videoID}, true
}

func parseLoomEmbed(u *url.URL) (videoEmbed, bool) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) != 2 || (segments[0] != "share" && segments[0] != "embed") || segments[1] == "" {
		return videoEmbed{}, false
	}
	return videoEmbed{Provider: "loom", EmbedURL: "https://www.loom.com/embed/" + url.PathEscape(segments[1])}, true
}

func buildVideoEmbedHTML(embed videoEmbed) string {
	return fmt.Sprintf(
		`<div class="video-embed" data-video-provider="%s">`+
			`<iframe src="%s" title="Video player" loading="lazy" allow="accelerometer; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen frameborder="0" referrerpolicy="strict-origin-when-cross-origin"></iframe>`+
			`</div>`,
		htmlstd.EscapeString(embed.Provider),
		htmlstd.EscapeString(embed.EmbedURL),
	)
}

func isHostOrSubdomain(host, domain string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	return host == domain || strings.HasSuffix(host, "."+domain)
}
