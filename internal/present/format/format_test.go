package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONResult(t *testing.T) {
	var buf bytes.Buffer
	r := Result{
		Source:    "doc.md",
		InputHash: "abc123",
		Options:   "ah=1",
		Fragment:  "<p>x</p>",
	}
	require.NoError(t, WriteJSONResult(&buf, r, false))

	var back Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, r, back)
	// Page omitted when empty.
	assert.NotContains(t, buf.String(), `"page"`)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, "<p>x</p>\n\n"))
	assert.Equal(t, "<p>x</p>\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteHTML(&buf, "<p>y</p>"))
	assert.Equal(t, "<p>y</p>\n", buf.String())
}
