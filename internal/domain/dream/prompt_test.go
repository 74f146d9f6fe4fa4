package dream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages(DefaultPersona(), "I was flying")

	require.Len(t, msgs, 2)
	assert.Equal(t, ChatMessage{Role: RoleSystem, Content: DefaultSystemPrompt}, msgs[0])
	assert.Equal(t, ChatMessage{Role: RoleUser, Content: "Analyze this dream: I was flying"}, msgs[1])
}

func TestBuildRequestTokenCap(t *testing.T) {
	withCap, err := json.Marshal(BuildRequest(DefaultPersona(), "x", 1024))
	require.NoError(t, err)
	assert.Contains(t, string(withCap), `"max_tokens":1024`)

	withoutCap, err := json.Marshal(BuildRequest(DefaultPersona(), "x", 0))
	require.NoError(t, err)
	assert.NotContains(t, string(withoutCap), "max_tokens")

	assert.Equal(t, 0, BuildRequest(DefaultPersona(), "x", -5).MaxTokens)
}

func TestResponseShapeRender(t *testing.T) {
	nested, err := json.Marshal(ShapeNested.Render("text"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"analysis":{"response":"text"}}`, string(nested))

	flat, err := json.Marshal(ShapeFlat.Render("text"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"analysis":"text"}`, string(flat))
}

func TestParseShape(t *testing.T) {
	shape, err := ParseShape("")
	require.NoError(t, err)
	assert.Equal(t, ShapeNested, shape)

	shape, err = ParseShape("flat")
	require.NoError(t, err)
	assert.Equal(t, ShapeFlat, shape)

	_, err = ParseShape("xml")
	assert.Error(t, err)
}
