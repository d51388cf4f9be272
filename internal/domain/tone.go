package domain

import "strings"

// Tone selects the template set used for copy generation.
type Tone string

const (
	ToneWarm         Tone = "warm"
	TonePlayful      Tone = "playful"
	ToneMinimal      Tone = "minimal"
	ToneLuxury       Tone = "luxury"
	ToneCasual       Tone = "casual"
	ToneProfessional Tone = "professional"
)

// DefaultTone is used whenever a tone is missing or unknown.
const DefaultTone = ToneWarm

// AllTones lists the supported tones in display order.
var AllTones = []Tone{
	ToneWarm,
	TonePlayful,
	ToneMinimal,
	ToneLuxury,
	ToneCasual,
	ToneProfessional,
}

// Valid reports whether t is one of the supported tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneWarm, TonePlayful, ToneMinimal, ToneLuxury, ToneCasual, ToneProfessional:
		return true
	default:
		return false
	}
}

// Resolve returns t when it is supported and DefaultTone otherwise.
func (t Tone) Resolve() Tone {
	if t.Valid() {
		return t
	}
	return DefaultTone
}

// ParseTone normalises s (trimmed, lower-cased). The boolean reports whether
// the result is a supported tone; the returned value is always the
// normalised input so callers decide whether to fall back.
func ParseTone(s string) (Tone, bool) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}
