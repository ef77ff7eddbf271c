package cms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostBlocks(t *testing.T) {
	post := Post{Body: json.RawMessage(`[
		{"_type":"block","style":"h2","children":[{"_type":"span","text":"Why "},{"_type":"span","text":"rankings move"}]},
		{"_type":"image","asset":{"_ref":"image-1"}},
		{"_type":"block","children":[{"_type":"span","text":"  "}]},
		{"_type":"block","children":[{"_type":"span","text":"Plain paragraph."}]}
	]`)}

	blocks := post.Blocks()
	assert.Equal(t, []Block{
		{Style: "h2", Text: "Why rankings move"},
		{Style: "normal", Text: "Plain paragraph."},
	}, blocks)

	assert.Nil(t, Post{}.Blocks())
	assert.Nil(t, Post{Body: json.RawMessage(`{"not":"a list"}`)}.Blocks())
}
