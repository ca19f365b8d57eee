package handlers

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCacheParsesPagesWithLayoutAndHelpers(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/layout.html": {Data: []byte(`{{define "header"}}<h1>{{.Title}}</h1>{{end}}`)},
		"pages/price.html":  {Data: []byte(`{{template "header" .}}{{money .Price}} {{prevPage .Page}}-{{nextPage .Page}}`)},
	}

	tc := NewTemplateCache()
	require.NoError(t, tc.Load(fsys, "pages"))
	assert.Nil(t, tc.Get("layout.html"))

	tmpl := tc.Get("price.html")
	require.NotNil(t, tmpl)

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, map[string]interface{}{"Title": "Menu", "Price": 13.5, "Page": 2}))
	assert.Equal(t, "<h1>Menu</h1>$13.50 1-3", buf.String())
}
