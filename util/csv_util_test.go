// api/util/csv_util_test.go
package util_test

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trashmob-eco/trashmob-api/util"
)

func TestEscapeCSVField(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"with space", "with space"},
		{"a,b", "\"a,b\""},
		{`say "hi"`, `"say ""hi"""`},
		{"line\nbreak", "\"line\nbreak\""},
		{"cr\rhere", "\"cr\rhere\""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, util.EscapeCSVField(tc.in), "input %q", tc.in)
	}
}

// A standard CSV reader must round-trip whatever the exports emit.
func TestWriteCSVRow_RoundTrip(t *testing.T) {
	rows := [][]string{
		{"Waiver", "Document Version", "Signed As"},
		{"Adopt-a-Street", "2.1", `Jamie "JJ" Ortiz`},
		{"Cleanup, main site", "1.0", "line\nbreak"},
	}

	var b strings.Builder
	for _, row := range rows {
		util.WriteCSVRow(&b, row...)
	}

	got, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestWriteCSVRow_UsesCRLF(t *testing.T) {
	var b strings.Builder
	util.WriteCSVRow(&b, "a", "b")
	assert.Equal(t, "a,b\r\n", b.String())
}
