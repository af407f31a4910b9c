package cursor_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailops/trail-ingest-app/internal/cursor"
)

func TestTokenStream(t *testing.T) {
	c := cursor.New(strings.NewReader(`{"name":"value","count":7,"flag":true,"absent":null,"items":[]}`))

	expected := []cursor.Token{
		{Kind: cursor.KindObjectStart},
		{Kind: cursor.KindString, Text: "name"},
		{Kind: cursor.KindString, Text: "value"},
		{Kind: cursor.KindString, Text: "count"},
		{Kind: cursor.KindNumber, Text: "7"},
		{Kind: cursor.KindString, Text: "flag"},
		{Kind: cursor.KindBool, Text: "true"},
		{Kind: cursor.KindString, Text: "absent"},
		{Kind: cursor.KindNull},
		{Kind: cursor.KindString, Text: "items"},
		{Kind: cursor.KindArrayStart},
		{Kind: cursor.KindArrayEnd},
		{Kind: cursor.KindObjectEnd},
	}

	for _, want := range expected {
		tok, err := c.Next()
		require.NoError(t, err)
		assert.Equal(t, want, tok, "expected %s", want.Kind)
	}

	_, err := c.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNumberTextIsVerbatim(t *testing.T) {
	c := cursor.New(strings.NewReader(`[1.060, 3e2]`))

	tok, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, cursor.KindArrayStart, tok.Kind)

	tok, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, cursor.KindNumber, tok.Kind)
	assert.Equal(t, "1.060", tok.Text)

	tok, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, "3e2", tok.Text)
}

func TestOffsetTracksTokenBoundaries(t *testing.T) {
	doc := `{"a": {"b": 1}}`
	c := cursor.New(strings.NewReader(doc))

	tok, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, cursor.KindObjectStart, tok.Kind)
	assert.Equal(t, int64(1), c.Offset())

	// consume the rest; the final offset covers the whole document
	for {
		if _, err := c.Next(); err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	assert.Equal(t, int64(len(doc)), c.Offset())
}

func TestCaptureRaw(t *testing.T) {
	testCases := []struct {
		Name     string
		Doc      string
		Expected string
	}{
		{
			Name:     "nested_object_compacted",
			Doc:      `{"field": {"a": [1, 2],  "b": "x"}}`,
			Expected: `{"a":[1,2],"b":"x"}`,
		},
		{
			Name:     "scalar",
			Doc:      `{"field": 42}`,
			Expected: `42`,
		},
		{
			Name:     "null",
			Doc:      `{"field": null}`,
			Expected: `null`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			c := cursor.New(strings.NewReader(tc.Doc))
			_, err := c.Next() // {
			require.NoError(t, err)
			_, err = c.Next() // field name
			require.NoError(t, err)

			raw, err := c.CaptureRaw()
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, string(raw))

			// the cursor resumes cleanly after the captured subtree
			tok, err := c.Next()
			require.NoError(t, err)
			assert.Equal(t, cursor.KindObjectEnd, tok.Kind)
		})
	}
}

type trackedReader struct {
	io.Reader
	closed bool
}

func (r *trackedReader) Close() error {
	r.closed = true
	return nil
}

func TestCloseReleasesStream(t *testing.T) {
	src := &trackedReader{Reader: strings.NewReader(`{}`)}
	c := cursor.New(src)
	require.NoError(t, c.Close())
	assert.True(t, src.closed)

	// plain readers have nothing to release
	assert.NoError(t, cursor.New(strings.NewReader(`{}`)).Close())
}
