package ocr

// Fixed request policy. These are not exposed to callers.
const (
	// DefaultLanguage is used when the caller gives no preferred languages.
	DefaultLanguage = "en-US"

	// MinimumTextHeight is the smallest text the engine should look for, as a
	// fraction of the image height.
	MinimumTextHeight = 0.008

	usesLanguageCorrection       = true
	automaticallyDetectsLanguage = true
)

// RequestConfig is the full configuration handed to Engine.NewRequest.
type RequestConfig struct {
	// Level is the recognition level, taken straight from the caller's accuracy.
	Level Accuracy

	// Languages is a ranked preference list of BCP-47 tags. Never empty.
	Languages []string

	UsesLanguageCorrection       bool
	AutomaticallyDetectsLanguage bool
	MinimumTextHeight            float64
}

// BuildRequest turns the caller's options into a RequestConfig.
//
// An empty languages list becomes []string{DefaultLanguage}. A non-empty list
// is copied as-is; its order is a ranking and is kept.
func BuildRequest(accuracy Accuracy, languages []string) RequestConfig {
	langs := []string{DefaultLanguage}
	if len(languages) > 0 {
		langs = make([]string, len(languages))
		copy(langs, languages)
	}

	return RequestConfig{
		Level:                        accuracy,
		Languages:                    langs,
		UsesLanguageCorrection:       usesLanguageCorrection,
		AutomaticallyDetectsLanguage: automaticallyDetectsLanguage,
		MinimumTextHeight:            MinimumTextHeight,
	}
}
