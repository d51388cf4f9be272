// Package copygen turns a bundle description into marketing copy by filling
// fixed per-tone templates. It performs no I/O and is fully deterministic.
package copygen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

// Generator fills the templates of a Catalog.
type Generator struct {
	catalog *Catalog
}

var defaultCatalog = MustParseCatalog(defaultCatalogYAML)

// New returns a Generator backed by the built-in catalog.
func New() *Generator {
	return &Generator{catalog: defaultCatalog}
}

// NewWithCatalog returns a Generator backed by c.
func NewWithCatalog(c *Catalog) *Generator {
	return &Generator{catalog: c}
}

// Catalog exposes the tone table used by g.
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}

// Label returns the display label of t.
func (g *Generator) Label(t domain.Tone) string {
	return g.catalog.Label(t)
}

// Tones lists the selectable tones in display order.
func (g *Generator) Tones() []ToneOption {
	return g.catalog.Tones()
}

// Generate builds the copy for a bundle. Items are used as given: callers
// filter out untitled items beforehand. Unknown tones use the warm templates.
func (g *Generator) Generate(bundleName string, tone domain.Tone, items []domain.BundleItem) domain.GeneratedCopy {
	style := g.catalog.Style(tone)
	count := strconv.Itoa(len(items))

	// Single pass: user text is never re-scanned for placeholders.
	fill := strings.NewReplacer(
		"{bundle}", bundleName,
		"{count}", count,
		"{motif}", style.Motif,
	)

	bullets := make([]string, 0, len(items))
	for _, item := range items {
		bullets = append(bullets, bullet(style, item))
	}

	return domain.GeneratedCopy{
		Title:     fmt.Sprintf("%s %s - %s Piece Bundle Collection", style.TitlePrefix, bundleName, count),
		Pitch:     fill.Replace(style.Pitch),
		Bullets:   bullets,
		Instagram: fill.Replace(style.Instagram),
	}
}

func bullet(style Style, item domain.BundleItem) string {
	clause := item.Description
	if clause == "" {
		clause = style.BulletDefault
	}
	return item.Title + " - " + style.BulletConnective + clause
}

// Generate uses the built-in catalog.
func Generate(bundleName string, tone domain.Tone, items []domain.BundleItem) domain.GeneratedCopy {
	return New().Generate(bundleName, tone, items)
}
