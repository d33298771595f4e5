package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardMarkup = `<html>
<template id="card-front"><div class="playing-card {{classe}}">{{ titolo }}|{{testo}}|{{titolo}}</div></template>
<template id='card-back'>
<div class="playing-card back {{classe}}">{{icona_esercizio}}</div>
</template>
</html>`

func TestParseTokens(t *testing.T) {
	tpl := Parse("{{a}} {{ b }} {{a}} {{not a token} {{c_1}}")
	assert.Equal(t, []string{"a", "b", "c_1"}, tpl.Tokens())

	assert.Empty(t, Parse("plain text").Tokens())
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		fields Fields
		want   string
	}{
		{"all fields", "<b>{{titolo}}</b> {{tipo}}", Fields{"titolo": "Lead Time", "tipo": "Flow"}, "<b>Lead Time</b> Flow"},
		{"missing field is blank", "[{{titolo}}][{{flavor}}]", Fields{"titolo": "X"}, "[X][]"},
		{"repeated token", "{{a}}{{a}}", Fields{"a": "z"}, "zz"},
		{"value not rescanned", "{{a}}", Fields{"a": "{{b}}", "b": "nope"}, "{{b}}"},
		{"no tokens", "static", nil, "static"},
		{"whitespace inside braces", "{{  a  }}", Fields{"a": "ok"}, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text).Execute(tt.fields))
		})
	}
}

func TestParseSet(t *testing.T) {
	s, err := ParseSet(cardMarkup)
	require.NoError(t, err)

	front := s.Front.Execute(Fields{"titolo": "Lead Time", "classe": "flow", "testo": "days"})
	assert.Equal(t, `<div class="playing-card flow">Lead Time|days|Lead Time</div>`, front)

	back := s.Back.Execute(Fields{"classe": "flow", "icona_esercizio": "📊"})
	assert.Equal(t, "\n"+`<div class="playing-card back flow">📊</div>`+"\n", back)

	assert.ElementsMatch(t, []string{"classe", "titolo", "testo", "icona_esercizio"}, s.Tokens())
}

func TestParseSetMissingBlocks(t *testing.T) {
	_, err := ParseSet(`<template id="card-back">x</template>`)
	require.ErrorIs(t, err, ErrMissingTemplate)
	assert.Contains(t, err.Error(), FrontBlockID)

	_, err = ParseSet(`<template id="card-front">x</template>`)
	require.ErrorIs(t, err, ErrMissingTemplate)
	assert.Contains(t, err.Error(), BackBlockID)
}

func TestDefaults(t *testing.T) {
	s := Default()
	assert.Empty(t, s.Path)
	assert.Contains(t, s.Front.Tokens(), "titolo")
	assert.Contains(t, s.Back.Tokens(), "icona_esercizio")

	doc := DefaultDocument()
	for _, tok := range []string{"PAGE_STYLE", "TITOLO_ESERCIZIO", "FOGLI", "COLONNE"} {
		assert.Contains(t, doc.Page.Tokens(), tok)
	}
	assert.Contains(t, doc.Sheet.Tokens(), "FRONTE_CARTE")
	assert.Contains(t, doc.Sheet.Tokens(), "RETRO_CARTE")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.html")
	require.NoError(t, os.WriteFile(path, []byte(cardMarkup), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)

	bad := filepath.Join(dir, "bad.html")
	require.NoError(t, os.WriteFile(bad, []byte("<p>nothing</p>"), 0644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrMissingTemplate)

	_, err = Load(filepath.Join(dir, "missing.html"))
	assert.Error(t, err)
}

func TestLoadDocument(t *testing.T) {
	doc, err := LoadDocument("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDocument().Sheet.String(), doc.Sheet.String())

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.html")
	markup := `<html><body>{{FOGLI}}</body><template id="sheet"><div>{{FRONTE_CARTE}}</div><div>{{RETRO_CARTE}}</div></template></html>`
	require.NoError(t, os.WriteFile(path, []byte(markup), 0644))

	doc, err = LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "<div>{{FRONTE_CARTE}}</div><div>{{RETRO_CARTE}}</div>", doc.Sheet.String())
	assert.False(t, strings.Contains(doc.Page.String(), "<template"))
	assert.Equal(t, []string{"FOGLI"}, doc.Page.Tokens())
}

func TestLoadDocumentSingleSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main-template.html")
	markup := `<html><h1>{{TITOLO_ESERCIZIO}}</h1><div class="fronts">{{FRONTE_CARTE}}</div><div class="backs">{{RETRO_CARTE}}</div></html>`
	require.NoError(t, os.WriteFile(path, []byte(markup), 0644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.True(t, doc.SingleSheet())
	assert.False(t, DefaultDocument().SingleSheet())
}

func TestLoadDocumentWithoutCardTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte(`<html><h1>{{TITOLO_ESERCIZIO}}</h1></html>`), 0644))

	_, err := LoadDocument(path)
	assert.ErrorIs(t, err, ErrMissingTemplate)
}

func TestFieldsMerge(t *testing.T) {
	base := Fields{"a": "1", "b": "2"}
	got := base.Merge(map[string]string{"b": "3"}, map[string]string{"c": "4"})
	assert.Equal(t, Fields{"a": "1", "b": "3", "c": "4"}, got)
	assert.Equal(t, "2", base["b"])
}
