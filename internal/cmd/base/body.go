package base

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// BodyFlags selects the JSON request body of create, update and patch.
type BodyFlags struct {
	File string
	Data string
}

// Register adds -file and -data to f.
func (b *BodyFlags) Register(f *FlagSet) {
	f.StringVar(&b.File, "file", "", "Path to a JSON file holding the request body")
	f.StringVar(&b.Data, "data", "", "Inline JSON request body")
}

// Read returns the body named by the flags. Exactly one of -file and -data
// must be set, and the content must be valid JSON.
func (b *BodyFlags) Read(fsys afero.Fs) (json.RawMessage, error) {
	var raw []byte
	switch {
	case b.File != "" && b.Data != "":
		return nil, fmt.Errorf("only one of -file and -data can be set")
	case b.File != "":
		data, err := afero.ReadFile(fsys, b.File)
		if err != nil {
			return nil, fmt.Errorf("error reading body file: %w", err)
		}
		raw = data
	case b.Data != "":
		raw = []byte(b.Data)
	default:
		return nil, fmt.Errorf("a request body is required (-file or -data)")
	}

	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return raw, nil
}

// IsArray reports whether body is a JSON array.
func IsArray(body json.RawMessage) bool {
	return len(body) > 0 && body[0] == '['
}
