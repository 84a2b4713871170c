package vfs2

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeName decodes a fixed-width name field. The field is cut at the first
// NUL; without one all bytes belong to the name.
func decodeName(field []byte, policy NamePolicy) (string, error) {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}

	if policy == NameLenient {
		b, err := unicode.UTF8.NewDecoder().Bytes(field)
		if err != nil {
			return "", errors.Wrapf(ErrDecode, "%q: %v", field, err)
		}
		return string(b), nil
	}

	if _, _, err := transform.Bytes(encoding.UTF8Validator, field); err != nil {
		return "", errors.Wrapf(ErrDecode, "%q", field)
	}
	return string(field), nil
}
