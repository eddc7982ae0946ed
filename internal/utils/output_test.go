package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/sereni/internal/markers"
	"github.com/ramanasai/sereni/internal/mood"
)

func render(t *testing.T, f OutputFormat, fn func(*Renderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewRenderer(&buf, &RenderConfig{Format: f, Width: 80})
	require.NoError(t, fn(r))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatDefault, "JSON": FormatJSON, " csv ": FormatCSV, "table": FormatTable} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestRenderMoodsJSON(t *testing.T) {
	cat := mood.MustCatalogue()
	out := render(t, FormatJSON, func(r *Renderer) error { return r.RenderMoods(cat.Entries()) })

	var got []mood.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, cat.Entries(), got)
}

func TestRenderMoodsCSV(t *testing.T) {
	cat := mood.MustCatalogue()
	out := render(t, FormatCSV, func(r *Renderer) error { return r.RenderMoods(cat.Entries()) })

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, cat.Len()+1)
	assert.Equal(t, "id,label,color,quadrant,gx,gy,definition", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "hu-1,Enragé·e,#C62828,high-unpleasant,52.5,52.5,"))
}

func TestRenderMoodsDefaultGroupsByQuadrant(t *testing.T) {
	cat := mood.MustCatalogue()
	out := render(t, FormatDefault, func(r *Renderer) error { return r.RenderMoods(cat.Entries()) })

	for _, q := range mood.Quadrants {
		assert.Equal(t, 1, strings.Count(out, q.Label), q.Label)
	}
	assert.Contains(t, out, "Paisible")
}

func TestRenderCheck(t *testing.T) {
	res := NewCheckResult(markers.Match{Category: markers.Insomnia, Keyword: "je dors mal"}, true)
	assert.Equal(t, CheckResult{Matched: true, Category: "insomnia", Label: "Insomnie", Keyword: "je dors mal"}, res)

	out := render(t, FormatDefault, func(r *Renderer) error { return r.RenderCheck(res) })
	assert.Contains(t, out, "Insomnie")
	assert.Contains(t, out, "je dors mal")

	out = render(t, FormatCSV, func(r *Renderer) error { return r.RenderCheck(res) })
	assert.Equal(t, "matched,category,keyword\ntrue,insomnia,je dors mal\n", out)

	out = render(t, FormatDefault, func(r *Renderer) error { return r.RenderCheck(NewCheckResult(markers.Match{}, false)) })
	assert.Contains(t, out, "Aucun marqueur")

	out = render(t, FormatJSON, func(r *Renderer) error { return r.RenderCheck(CheckResult{}) })
	assert.JSONEq(t, `{"matched": false}`, out)
}

func TestEscapeCSV(t *testing.T) {
	assert.Equal(t, "plain", escapeCSV("plain"))
	assert.Equal(t, `"a, b"`, escapeCSV("a, b"))
	assert.Equal(t, `"dit ""non"""`, escapeCSV(`dit "non"`))
}
