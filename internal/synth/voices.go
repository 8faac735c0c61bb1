package synth

import "github.com/rs/zerolog/log"

// Voices available in the Orpheus model
var Voices = []string{"tara", "leah", "jess", "leo", "dan", "mia", "zac", "zoe"}

// DefaultVoice is substituted when a request names an unknown voice
const DefaultVoice = "tara"

// EmotionTags are the expression markers the model understands inline in
// prompts, formatted as they would be used
var EmotionTags = []string{
	"<laugh>", "<chuckle>", "<sigh>", "<cough>",
	"<sniffle>", "<groan>", "<yawn>", "<gasp>",
}

// IsValidVoice reports whether voice is in the known voice set
func IsValidVoice(voice string) bool {
	for _, v := range Voices {
		if v == voice {
			return true
		}
	}
	return false
}

// FormatPrompt builds the model-input prompt "{voice}: {text}". Unknown
// voices are logged and coerced to the default.
func FormatPrompt(text, voice string) string {
	if !IsValidVoice(voice) {
		log.Warn().
			Str("voice", voice).
			Str("default", DefaultVoice).
			Msg("Voice not in available voices, using default")
		voice = DefaultVoice
	}
	return voice + ": " + text
}
