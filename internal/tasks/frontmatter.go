package tasks

import (
	"bytes"
	"errors"
	"fmt"

	"go.yaml.in/yaml/v2"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("no frontmatter found")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("malformed frontmatter")
)

// ParseFrontMatter splits a task document into its frontmatter fields and
// body. Scalar values are kept as their string form so dates and numbers
// round-trip as written.
func ParseFrontMatter(content []byte) (map[string]string, []byte, error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]

	var meta, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")):
		meta, body = nil, rest[4:]
	default:
		parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
		if len(parts) == 2 {
			meta, body = parts[0], parts[1]
		} else if bytes.HasSuffix(rest, []byte("\n---")) {
			meta = rest[:len(rest)-4]
		} else {
			return nil, nil, ErrMalformedFrontMatter
		}
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(meta, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = v
		default:
			fields[k] = fmt.Sprint(v)
		}
	}
	if len(fields) == 0 {
		return nil, nil, ErrMissingFrontMatter
	}
	return fields, body, nil
}
