package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	got := RenderTable([]string{"NAME", "DIR"}, [][]string{
		{"controlDict", "system"},
		{"U", "0"},
		{"p"},
	})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 5)
	pad := func(s string, n int) string { return s + strings.Repeat(" ", n) }
	assert.Equal(t, pad("NAME", 9)+"DIR", stripANSI(lines[0]))
	assert.Equal(t, strings.Repeat("─", 11)+"  "+strings.Repeat("─", 6), stripANSI(lines[1]))
	assert.Equal(t, "controlDict  system", stripANSI(lines[2]))
	assert.Equal(t, pad("U", 12)+"0", stripANSI(lines[3]))
	assert.Equal(t, pad("p", 12), stripANSI(lines[4]))
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}
