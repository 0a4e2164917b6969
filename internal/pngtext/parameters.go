package pngtext

import (
	"fmt"
	"strings"
)

const (
	// PositivePromptKey holds the first line of the parameters text.
	PositivePromptKey = "Positive Prompt"
	// NegativePromptKey holds the second line without its label.
	NegativePromptKey = "Negative Prompt"

	negativeLabel  = "Negative prompt:"
	paramSeparator = ", "
)

// ParseParameters parses a "parameters" text blob. The first line is the
// positive prompt, the second the negative prompt and the third a ", "
// separated list of "Key: value" settings. A setting without a colon is
// stored as Param_<n>, n being the map size at the time of insertion.
func ParseParameters(text string) map[string]string {
	metadata := make(map[string]string)
	parts := strings.SplitN(text, "\n", 3)

	metadata[PositivePromptKey] = parts[0]

	if len(parts) > 1 {
		neg := strings.TrimSpace(parts[1])
		neg = strings.TrimPrefix(neg, negativeLabel)
		metadata[NegativePromptKey] = strings.TrimSpace(neg)
	}

	if len(parts) > 2 {
		params := strings.TrimSpace(parts[2])
		for _, param := range strings.Split(params, paramSeparator) {
			if k, v, found := strings.Cut(param, ":"); found {
				metadata[strings.TrimSpace(k)] = strings.TrimSpace(v)
				continue
			}
			metadata[fmt.Sprintf("Param_%d", len(metadata))] = param
		}
	}

	return metadata
}
