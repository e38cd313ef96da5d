// Package takeout loads watch-history records from a personal data export.
package takeout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/watchstats/internal/model"
)

// ParseError means the file content is not valid JSON, even after repair.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("takeout: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError means the file is valid JSON but its top-level value is not a list.
type SchemaError struct {
	Path string
	Got  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("takeout: %s: expected a list of records, got %s", e.Path, e.Got)
}

// Repair fixes the trailing-comma malformations seen in some exports.
func Repair(content []byte) []byte {
	content = bytes.ReplaceAll(content, []byte(",]"), []byte("]"))
	return bytes.ReplaceAll(content, []byte(",}"), []byte("}"))
}

// errInvalidUTF8 fails a source whose bytes are not UTF-8; nothing is
// replaced or guessed.
var errInvalidUTF8 = eris.New("content is not valid UTF-8")

// Parse decodes export content into records tagged with source. Elements of
// the list that are not objects are skipped.
func Parse(path string, content []byte, source model.SourceTag) ([]model.RawRecord, error) {
	if !utf8.Valid(content) {
		return nil, &ParseError{Path: path, Err: errInvalidUTF8}
	}
	content, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), content)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	content = Repair(content)

	var raw []json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaError{Path: path, Got: jsonKind(content)}
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	if raw == nil {
		return nil, &SchemaError{Path: path, Got: jsonKind(content)}
	}

	records := make([]model.RawRecord, 0, len(raw))
	skipped := 0
	for _, msg := range raw {
		var rec model.RawRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			skipped++
			continue
		}
		rec.Source = source
		records = append(records, rec)
	}
	if skipped > 0 {
		zap.L().Debug("takeout: skipped malformed records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return records, nil
}

// LoadFile reads and parses the export file at path.
func LoadFile(path string, source model.SourceTag) ([]model.RawRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "takeout: read %s", path)
	}
	return Parse(path, content, source)
}

// jsonKind names the top-level value of valid JSON content.
func jsonKind(content []byte) string {
	trimmed := bytes.TrimLeft(content, " \t\r\n")
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '[':
		return "array"
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
