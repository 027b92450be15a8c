package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	require.Equal(t, "<commit message>", Plain.Format())
	require.Equal(t, "<type>(<optional scope>): <commit message>", Conventional.Format())
	require.Panics(t, func() { _ = Convention(42).Format() })
}

func TestParseConvention(t *testing.T) {
	for in, want := range map[string]Convention{
		"":             Plain,
		"plain":        Plain,
		"Conventional": Conventional,
	} {
		got, err := ParseConvention(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseConvention("gitmoji")
	require.ErrorIs(t, err, ErrUnknownConvention)
}

func TestDescribeTypes(t *testing.T) {
	require.Empty(t, Plain.DescribeTypes())
	require.Panics(t, func() { _ = Convention(-1).DescribeTypes() })

	text := Conventional.DescribeTypes()
	head, body, ok := strings.Cut(text, "\n")
	require.True(t, ok)
	require.Contains(t, head, "best describes the git diff")

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	require.Len(t, decoded, 11)
	require.Equal(t, "Changes that do not affect the meaning of the code (white-space, formatting, missing semicolons, etc.)", decoded["style"])
	require.Equal(t, "Other changes that don't modify source or test files", decoded["chore"])

	// catalog order is kept
	last := -1
	for _, e := range Types() {
		idx := strings.Index(body, `"`+e.Label+`":`)
		require.Greater(t, idx, last)
		last = idx
	}
}

func TestTypesIsACopy(t *testing.T) {
	types := Types()
	types[0].Label = "changed"
	require.Equal(t, "docs", Types()[0].Label)
	require.True(t, IsType("revert"))
	require.False(t, IsType("changed"))
}
