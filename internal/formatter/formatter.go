package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	apperrors "github.com/mcncl/yaml2json/internal/errors"
	"github.com/mcncl/yaml2json/internal/models"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 4

// Formatter renders document values as JSON text
type Formatter struct {
	indent int
}

// NewFormatter creates a Formatter indenting each level by indent spaces.
// An indent of zero produces compact single-line output.
func NewFormatter(indent int) *Formatter {
	if indent < 0 {
		indent = DefaultIndent
	}
	return &Formatter{indent: indent}
}

// Format encodes v as JSON. Mapping keys keep their document order and the
// output has no trailing newline.
func (f *Formatter) Format(v models.DocumentValue) ([]byte, error) {
	var e jx.Encoder
	if err := encodeValue(&e, v, "$"); err != nil {
		return nil, err
	}
	compact := e.Bytes()

	if f.indent == 0 {
		out := make([]byte, len(compact))
		copy(out, compact)
		return out, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", strings.Repeat(" ", f.indent)); err != nil {
		return nil, apperrors.NewEncodeError("failed to indent JSON", errors.Wrap(err, "indent"))
	}
	return buf.Bytes(), nil
}

// encodeValue writes v to e. path locates v for error messages.
func encodeValue(e *jx.Encoder, v models.DocumentValue, path string) error {
	switch val := v.(type) {
	case nil:
		e.Null()
	case bool:
		e.Bool(val)
	case string:
		e.Str(val)
	case models.Number:
		if _, err := strconv.ParseFloat(string(val), 64); err != nil && !isIntegerText(string(val)) {
			return apperrors.NewEncodeError(
				fmt.Sprintf("value at %s", path),
				errors.Errorf("invalid number %q", string(val)),
			)
		}
		e.Raw([]byte(val))
	case float64:
		s, ok := models.FormatFloat(val)
		if !ok {
			return apperrors.NewEncodeError(
				fmt.Sprintf("value at %s", path),
				errors.Wrapf(apperrors.ErrNonFiniteNumber, "%v", val),
			)
		}
		e.Raw([]byte(s))
	case models.Sequence:
		e.ArrStart()
		for i, item := range val {
			if err := encodeValue(e, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		e.ArrEnd()
	case *models.Mapping:
		e.ObjStart()
		for _, k := range val.Keys() {
			item, _ := val.Get(k)
			e.FieldStart(k)
			if err := encodeValue(e, item, path+"."+k); err != nil {
				return err
			}
		}
		e.ObjEnd()
	default:
		return apperrors.NewEncodeError(
			fmt.Sprintf("value at %s", path),
			errors.Errorf("unsupported type %T", v),
		)
	}
	return nil
}

func isIntegerText(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
