package copygen

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

//go:embed tones.yaml
var defaultCatalogYAML []byte

// Style is the template set for one tone.
type Style struct {
	Tone        domain.Tone `yaml:"tone"`
	Label       string      `yaml:"label"`
	TitlePrefix string      `yaml:"title_prefix"`

	// PitchStyle and BulletStyle describe the voice of the templates.
	// They never appear in generated text.
	PitchStyle  string `yaml:"pitch_style"`
	BulletStyle string `yaml:"bullet_style"`

	Motif            string `yaml:"motif"`
	Pitch            string `yaml:"pitch"`
	BulletConnective string `yaml:"bullet_connective"`
	BulletDefault    string `yaml:"bullet_default"`
	Instagram        string `yaml:"instagram"`
}

// ToneOption is a tone value with its display label.
type ToneOption struct {
	Value domain.Tone `json:"value"`
	Label string      `json:"label"`
}

// Catalog is the fixed tone -> Style table.
type Catalog struct {
	order  []domain.Tone
	styles map[domain.Tone]Style
}

// ParseCatalog decodes a YAML sequence of styles and checks that every
// supported tone is present exactly once with all fields filled in.
func ParseCatalog(data []byte) (*Catalog, error) {
	var styles []Style
	if err := yaml.Unmarshal(data, &styles); err != nil {
		return nil, fmt.Errorf("failed to parse tone catalog: %w", err)
	}

	c := &Catalog{
		order:  make([]domain.Tone, 0, len(styles)),
		styles: make(map[domain.Tone]Style, len(styles)),
	}

	for i, s := range styles {
		if !s.Tone.Valid() {
			return nil, fmt.Errorf("entry %d: unknown tone %q", i, s.Tone)
		}
		if _, dup := c.styles[s.Tone]; dup {
			return nil, fmt.Errorf("entry %d: duplicate tone %q", i, s.Tone)
		}
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("tone %q: %w", s.Tone, err)
		}
		c.styles[s.Tone] = s
		c.order = append(c.order, s.Tone)
	}

	for _, t := range domain.AllTones {
		if _, ok := c.styles[t]; !ok {
			return nil, fmt.Errorf("missing tone %q", t)
		}
	}

	return c, nil
}

func (s Style) validate() error {
	required := map[string]string{
		"label":             s.Label,
		"title_prefix":      s.TitlePrefix,
		"motif":             s.Motif,
		"pitch":             s.Pitch,
		"bullet_connective": s.BulletConnective,
		"bullet_default":    s.BulletDefault,
		"instagram":         s.Instagram,
	}
	var missing []string
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return errors.New("missing fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// MustParseCatalog is like ParseCatalog but panics on error.
func MustParseCatalog(data []byte) *Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic("copygen: " + err.Error())
	}
	return c
}

// Style returns the style for t, falling back to the default tone.
func (c *Catalog) Style(t domain.Tone) Style {
	if s, ok := c.styles[t]; ok {
		return s
	}
	return c.styles[domain.DefaultTone]
}

// Label returns the display label for t ("Warm & Heartfelt" for unknown tones).
func (c *Catalog) Label(t domain.Tone) string {
	return c.Style(t).Label
}

// Tones returns the tone options in display order.
func (c *Catalog) Tones() []ToneOption {
	out := make([]ToneOption, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, ToneOption{Value: t, Label: c.styles[t].Label})
	}
	return out
}
