package cms

import (
	"encoding/json"
	"strings"
)

// Block is one rich-text block of a post body.
type Block struct {
	Style string
	Text  string
}

type rawBlock struct {
	Type     string `json:"_type"`
	Style    string `json:"style"`
	Children []struct {
		Type string `json:"_type"`
		Text string `json:"text"`
	} `json:"children"`
}

// Blocks flattens the body into text blocks. Non-text blocks such as images
// are skipped, as are blocks that fail to decode.
func (p Post) Blocks() []Block {
	if len(p.Body) == 0 {
		return nil
	}

	var raw []rawBlock
	if err := json.Unmarshal(p.Body, &raw); err != nil {
		return nil
	}

	blocks := make([]Block, 0, len(raw))
	for _, rb := range raw {
		if rb.Type != "block" {
			continue
		}
		var sb strings.Builder
		for _, child := range rb.Children {
			if child.Type == "span" || child.Type == "" {
				sb.WriteString(child.Text)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		style := rb.Style
		if style == "" {
			style = "normal"
		}
		blocks = append(blocks, Block{Style: style, Text: text})
	}
	return blocks
}
