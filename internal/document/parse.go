package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

// Parse decodes raw document bytes into a tree of map[string]any, []any and
// primitive leaves. Numbers are kept as json.Number so they survive a
// round-trip without float reformatting. Comments and trailing commas are
// stripped before decoding.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("document is empty")
		}
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid document: unexpected data after top-level value")
	}
	return root, nil
}
