package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// writeJSON pretty-prints a raw API payload.
func writeJSON(out io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		// Not valid JSON; emit it as-is rather than losing it.
		_, writeErr := out.Write(raw)
		if writeErr != nil {
			return writeErr
		}
		_, writeErr = fmt.Fprintln(out)
		return writeErr
	}

	_, err := fmt.Fprintln(out, buf.String())
	return err
}
