package tesseract

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Tesseract names Chinese models by script rather than by language.
const (
	chineseSimplified  = "chi_sim"
	chineseTraditional = "chi_tra"
)

// tesseractLanguages maps BCP-47 tags to Tesseract traineddata names, keeping
// order and dropping duplicates. When autoDetect is false only the first tag
// is used.
func tesseractLanguages(tags []string, autoDetect bool) ([]string, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("no recognition languages")
	}
	if !autoDetect {
		tags = tags[:1]
	}

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		name, err := traineddataName(raw)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

func traineddataName(raw string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", raw, err)
	}

	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("invalid language tag %q: no base language", raw)
	}

	if base.String() == "zh" {
		if script, _ := tag.Script(); script.String() == "Hant" {
			return chineseTraditional, nil
		}
		return chineseSimplified, nil
	}

	return base.ISO3(), nil
}

// languageString joins traineddata names the way Tesseract expects them.
func languageString(langs []string) string {
	return strings.Join(langs, "+")
}
