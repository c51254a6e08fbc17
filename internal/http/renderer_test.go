package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateRenderer_Errors(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)

	_, err = NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fstest.MapFS{
		"layout.tmpl": {Data: []byte(`{{define "layout"}}{{block "content" .}}{{end}}{{end}}`)},
	}})
	require.Error(t, err, "no pages")
}

func TestTemplateRenderer_PagesAreIsolated(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.tmpl":  {Data: []byte(`{{define "layout"}}<p>{{block "content" .}}{{end}}</p>{{end}}`)},
		"pages/a.tmpl": {Data: []byte(`{{define "content"}}A {{.}}{{end}}`)},
		"pages/b.tmpl": {Data: []byte(`{{define "content"}}B {{.}}{{end}}`)},
	}
	r, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, http.StatusTeapot, "a", "<x>"))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "<p>A &lt;x&gt;</p>", w.Body.String())

	w = httptest.NewRecorder()
	require.NoError(t, r.Render(w, http.StatusOK, "b", "y"))
	assert.Equal(t, "<p>B y</p>", w.Body.String())

	require.Error(t, r.Render(httptest.NewRecorder(), http.StatusOK, "missing", nil))
}
