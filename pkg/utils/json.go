package utils

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PrettyJson serializa qualquer valor com indentação, para saída de terminal
func PrettyJson(in any) string {
	if raw, ok := in.([]byte); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return string(raw)
		}
		in = decoded
	}

	out, err := json.MarshalIndent(in, "", "\t")
	if err != nil {
		return ""
	}

	return string(out)
}
