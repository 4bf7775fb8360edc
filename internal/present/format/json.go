// Package format writes conversion results to an output stream in the
// shapes the CLI exposes.
package format

import (
	"encoding/json"
	"io"
)

// Result is the JSON envelope for one converted document.
type Result struct {
	Source    string `json:"source"`
	InputHash string `json:"input_hash"`
	Options   string `json:"options"`
	Cached    bool   `json:"cached"`
	Fragment  string `json:"fragment"`
	Page      string `json:"page,omitempty"`
}

func WriteJSONResult(w io.Writer, r Result, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

func WriteJSONResults(w io.Writer, rs []Result, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rs)
}
