package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// TemplateRenderer renders HTML pages. Each page under pages/ is parsed on top of
// its own clone of layout.tmpl so pages can redefine the "content" and "head" blocks.
type TemplateRenderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing layout.tmpl and pages/*.tmpl (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer parses every page template up front.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base, err := template.ParseFS(cfg.TemplateFS, "layout.tmpl")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "layout"))
		return nil, err
	}

	files, err := fs.Glob(cfg.TemplateFS, "pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no page templates found")
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		clone, cloneErr := base.Clone()
		if cloneErr != nil {
			return nil, cloneErr
		}
		t, parseErr := clone.ParseFS(cfg.TemplateFS, file)
		if parseErr != nil {
			logger.Error("template parsing failed", slog.Any("error", parseErr), slog.String("page", name))
			return nil, fmt.Errorf("parse page %s: %w", name, parseErr)
		}
		pages[name] = t
	}

	return &TemplateRenderer{pages: pages, logger: logger}, nil
}

// Render writes page with the given status.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		err := fmt.Errorf("unknown page %q", page)
		r.logger.Error("template execution failed", slog.String("template", page), slog.Any("error", err))
		return err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed", slog.String("template", page), slog.Any("error", err))
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", slog.String("template", page), slog.Any("error", err))
		return err
	}
	return nil
}
