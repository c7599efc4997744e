package report

import (
	"encoding/json"
	"fmt"
	"io"

	"csvaudit/internal/analysis"
)

// jsonEnvelope flattens load errors to plain strings so the dump stays
// consumable without knowing the internal error types.
type jsonEnvelope struct {
	*analysis.Result
	LoadErrors []string `json:"load_errors,omitempty"`
}

// WriteJSON dumps the full result as indented JSON.
func WriteJSON(res *analysis.Result, w io.Writer) error {
	env := jsonEnvelope{Result: res}
	for _, e := range res.LoadErrors {
		env.LoadErrors = append(env.LoadErrors, fmt.Sprintf("%s: %v", e.File, e.Err))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
