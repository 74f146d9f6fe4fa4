package dream

import (
	"github.com/bytedance/sonic"
)

// FallbackAnalysis is returned when a result carries no usable text
const FallbackAnalysis = "Unable to analyze the dream at this time."

// resultKeys are checked in order on object results
var resultKeys = []string{"response", "result", "output"}

// Normalize extracts the analysis text from a binding result. A bare JSON
// string is returned as is. For an object, the first of response, result
// and output holding a string wins. Anything else yields FallbackAnalysis
// with ok set to false.
func Normalize(raw []byte) (text string, ok bool) {
	if len(raw) == 0 {
		return FallbackAnalysis, false
	}

	var value any
	if err := sonic.Unmarshal(raw, &value); err != nil {
		return FallbackAnalysis, false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case map[string]any:
		for _, key := range resultKeys {
			if s, isString := v[key].(string); isString {
				return s, true
			}
		}
	}

	return FallbackAnalysis, false
}
