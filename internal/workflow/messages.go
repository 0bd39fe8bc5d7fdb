package workflow

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locales the step copy is translated into. English strings double as
// catalog keys.
var (
	LocaleEnglish    = language.English
	LocaleIndonesian = language.Indonesian
)

var indonesian = map[string]string{
	"Select Images":                              "Pilih Gambar",
	"Choose images for your video":               "Pilih gambar untuk video Anda",
	"Audio Method":                               "Metode Audio",
	"Choose how to add audio":                    "Pilih cara menambahkan audio",
	"Generate Audio":                             "Buat Audio",
	"Create audio with AI":                       "Buat audio dengan AI",
	"Select Audio":                               "Pilih Audio",
	"Choose audio files":                         "Pilih berkas audio",
	"Generate Video":                             "Buat Video",
	"Create your final video":                    "Buat video akhir Anda",
	"Continue":                                   "Lanjutkan",
	"Select at least one image to continue":      "Pilih minimal satu gambar untuk melanjutkan",
	"Choose an audio method to continue":         "Pilih metode audio untuk melanjutkan",
	"Enter lyrics to generate audio":             "Masukkan lirik untuk membuat audio",
	"Select at least one audio file to continue": "Pilih minimal satu berkas audio untuk melanjutkan",
	"Ready to generate your video":               "Siap membuat video Anda",
	"Complete this step to continue":             "Selesaikan langkah ini untuk melanjutkan",
}

func init() {
	for key, msg := range indonesian {
		if err := message.SetString(LocaleIndonesian, key, msg); err != nil {
			panic(err)
		}
	}
}

// printerFor returns a printer for the locale code stored by the I18N
// middleware ("en", "id"). Unknown codes fall back to English.
func printerFor(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		return message.NewPrinter(LocaleEnglish)
	}
	if base, _ := tag.Base(); base == mustBase(LocaleIndonesian) {
		return message.NewPrinter(LocaleIndonesian)
	}
	return message.NewPrinter(LocaleEnglish)
}

func mustBase(t language.Tag) language.Base {
	b, _ := t.Base()
	return b
}

type stepCopy struct {
	title       string
	description string
	proceed     string
}

var copyByStep = map[Step]stepCopy{
	StepImageSelection:     {"Select Images", "Choose images for your video", "Select at least one image to continue"},
	StepAudioMethod:        {"Audio Method", "Choose how to add audio", "Choose an audio method to continue"},
	StepAIAudioGeneration:  {"Generate Audio", "Create audio with AI", "Enter lyrics to generate audio"},
	StepAudioFileSelection: {"Select Audio", "Choose audio files", "Select at least one audio file to continue"},
	StepVideoGeneration:    {"Generate Video", "Create your final video", "Ready to generate your video"},
}

// ProceedMessage is the hint shown next to the continue button.
func ProceedMessage(step Step, locale string) string {
	p := printerFor(locale)
	c, ok := copyByStep[step]
	if !ok {
		return p.Sprintf("Complete this step to continue")
	}
	return p.Sprintf(c.proceed)
}

// NextLabel is the caption of the continue button.
func NextLabel(step Step, locale string) string {
	p := printerFor(locale)
	if step == StepVideoGeneration {
		return p.Sprintf("Generate Video")
	}
	return p.Sprintf("Continue")
}
