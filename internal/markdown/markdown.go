package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer преобразует markdown-тело истории в HTML и в плоский текст
type Renderer struct {
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
	strip    *bluemonday.Policy
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
	)
	return &Renderer{
		md:       md,
		sanitize: bluemonday.UGCPolicy(),
		strip:    bluemonday.StrictPolicy(),
	}
}

func (r *Renderer) ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return r.sanitize.Sanitize(buf.String()), nil
}

// ToPlainText рендерит markdown и вырезает всю разметку
func (r *Renderer) ToPlainText(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	text := html.UnescapeString(r.strip.Sanitize(buf.String()))
	return strings.Join(strings.Fields(text), " "), nil
}

// Excerpt обрезает плоский текст до maxLength рун, добавляя многоточие
// только если обрезка действительно произошла
func Excerpt(plain string, maxLength int) string {
	runes := []rune(plain)
	if len(runes) <= maxLength {
		return plain
	}
	return string(runes[:maxLength]) + "..."
}
