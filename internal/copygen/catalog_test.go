package copygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	c := New().Catalog()

	tones := c.Tones()
	require.Len(t, tones, len(domain.AllTones))
	for i, opt := range tones {
		assert.Equal(t, domain.AllTones[i], opt.Value, "display order")
		assert.NotEmpty(t, opt.Label)
	}

	assert.Equal(t, "Luxury & Elegant", c.Label(domain.ToneLuxury))
	assert.Equal(t, "Warm & Heartfelt", c.Label("unknown"))

	motifs := map[domain.Tone]string{
		domain.ToneWarm:         "💕",
		domain.TonePlayful:      "🎉",
		domain.ToneMinimal:      "✨",
		domain.ToneLuxury:       "🌟",
		domain.ToneCasual:       "😊",
		domain.ToneProfessional: "👔",
	}
	for tone, motif := range motifs {
		s := c.Style(tone)
		assert.Equal(t, motif, s.Motif, tone)
		assert.Contains(t, s.Pitch, "{bundle}", tone)
		assert.Contains(t, s.Pitch, "{count}", tone)
		assert.Contains(t, s.Instagram, "{motif}", tone)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	full := string(defaultCatalogYAML)

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			data:    "- tone: [warm",
			wantErr: "failed to parse tone catalog",
		},
		{
			name:    "unknown tone",
			data:    "- tone: grumpy\n  label: Grumpy\n",
			wantErr: `unknown tone "grumpy"`,
		},
		{
			name:    "missing tones",
			data:    firstEntry(full),
			wantErr: "missing tone",
		},
		{
			name:    "duplicate tone",
			data:    full + "\n" + firstEntry(full),
			wantErr: `duplicate tone "warm"`,
		},
		{
			name:    "missing fields",
			data:    "- tone: warm\n  label: Warm\n",
			wantErr: "missing fields: bullet_connective, bullet_default, instagram, motif, pitch, title_prefix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMustParseCatalog_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseCatalog([]byte("not: [a list")) })
}

// firstEntry returns the YAML of the first catalog entry (the warm tone).
func firstEntry(full string) string {
	start := strings.Index(full, "- tone: warm")
	end := strings.Index(full, "- tone: playful")
	return full[start:end]
}
