package parser

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/mcncl/yaml2json/internal/errors"
	"github.com/mcncl/yaml2json/internal/models"
)

// Mode selects the scalar resolution rules applied to plain scalars.
type Mode string

const (
	// ModeYAML11 resolves plain scalars the way YAML 1.1 loaders do:
	// yes/no/on/off are booleans and sexagesimal numbers are numbers.
	ModeYAML11 Mode = "yaml11"
	// ModeYAML12 keeps the YAML 1.2 core schema resolution of yaml.v3.
	ModeYAML12 Mode = "yaml12"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeYAML11, "1.1":
		return ModeYAML11, nil
	case ModeYAML12, "1.2":
		return ModeYAML12, nil
	default:
		return "", fmt.Errorf("unknown scalar mode %q (want yaml11 or yaml12)", s)
	}
}

const (
	nullTag  = "!!null"
	boolTag  = "!!bool"
	strTag   = "!!str"
	intTag   = "!!int"
	floatTag = "!!float"
	mergeTag = "!!merge"
)

var (
	yaml11Bool       = regexp.MustCompile(`^(?:yes|Yes|YES|no|No|NO|true|True|TRUE|false|False|FALSE|on|On|ON|off|Off|OFF)$`)
	yaml11Int        = regexp.MustCompile(`^(?:[-+]?0b[0-1_]+|[-+]?0[0-7_]+|[-+]?(?:0|[1-9][0-9_]*)|[-+]?0x[0-9a-fA-F_]+)$`)
	yaml11SexInt     = regexp.MustCompile(`^[-+]?[1-9][0-9_]*(?::[0-5]?[0-9])+$`)
	yaml11Float      = regexp.MustCompile(`^(?:[-+]?[0-9][0-9_]*\.[0-9_]*(?:[eE][-+][0-9]+)?|[-+]?\.[0-9_]+(?:[eE][-+][0-9]+)?|[-+]?\.(?:inf|Inf|INF)|\.(?:nan|NaN|NAN))$`)
	yaml11SexFloat   = regexp.MustCompile(`^[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+\.[0-9_]*$`)
	integerText      = regexp.MustCompile(`^[-+]?[0-9][0-9_]*$`)
	resolvableStyles = yaml.TaggedStyle | yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle | yaml.LiteralStyle | yaml.FoldedStyle
)

// resolveScalar turns a scalar node into a document value.
func resolveScalar(node *yaml.Node, mode Mode) (models.DocumentValue, error) {
	tag := node.ShortTag()
	plain := node.Style&resolvableStyles == 0

	if mode == ModeYAML11 && plain {
		if v, ok, err := resolveYAML11(node.Value, tag); ok || err != nil {
			return v, err
		}
	}

	switch tag {
	case nullTag:
		return nil, nil
	case boolTag:
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, scalarError(node, err)
		}
		return b, nil
	case intTag:
		n, err := parseInt(node.Value)
		if err != nil {
			return nil, scalarError(node, err)
		}
		return n, nil
	case floatTag:
		if plain && integerText.MatchString(node.Value) {
			// Too wide for int64/uint64, so yaml.v3 fell back to float.
			n, err := parseInt(node.Value)
			if err == nil {
				return n, nil
			}
		}
		f, err := parseFloat(node.Value)
		if err != nil {
			return nil, scalarError(node, err)
		}
		return f, nil
	default:
		// Strings, timestamps, binary and custom tags keep their text.
		return node.Value, nil
	}
}

// resolveYAML11 applies the YAML 1.1 rules that differ from yaml.v3's
// resolution. ok is false when the core resolution should be used.
func resolveYAML11(value, tag string) (models.DocumentValue, bool, error) {
	switch tag {
	case strTag:
		if yaml11Bool.MatchString(value) {
			switch strings.ToLower(value) {
			case "yes", "true", "on":
				return true, true, nil
			default:
				return false, true, nil
			}
		}
		if yaml11SexInt.MatchString(value) {
			n, err := parseSexagesimalInt(value)
			return n, true, err
		}
		if yaml11SexFloat.MatchString(value) {
			f, err := parseSexagesimalFloat(value)
			return f, true, err
		}
		if yaml11Int.MatchString(value) {
			n, err := parseInt(value)
			return n, true, err
		}
		if yaml11Float.MatchString(value) {
			f, err := parseFloat(value)
			return f, true, err
		}
	case intTag:
		if !yaml11Int.MatchString(value) {
			// 0o17 and similar are strings in YAML 1.1.
			return value, true, nil
		}
	case floatTag:
		if integerText.MatchString(value) {
			// Integers too wide for 64 bits.
			if !yaml11Int.MatchString(value) {
				return value, true, nil
			}
			n, err := parseInt(value)
			return n, true, err
		}
		if !yaml11Float.MatchString(value) {
			// YAML 1.1 floats need a dot; 1e3 stays a string.
			return value, true, nil
		}
	}
	return nil, false, nil
}

// parseInt parses integer text in any of the YAML bases and keeps
// arbitrary precision.
func parseInt(value string) (models.Number, error) {
	clean := strings.ReplaceAll(value, "_", "")
	neg := false
	switch {
	case strings.HasPrefix(clean, "-"):
		neg = true
		clean = clean[1:]
	case strings.HasPrefix(clean, "+"):
		clean = clean[1:]
	}

	n, ok := new(big.Int).SetString(clean, 0)
	if !ok {
		return "", fmt.Errorf("invalid integer %q", value)
	}
	if neg {
		n.Neg(n)
	}
	return models.Number(n.String()), nil
}

func parseFloat(value string) (float64, error) {
	clean := strings.ReplaceAll(value, "_", "")
	switch strings.ToLower(strings.TrimPrefix(clean, "+")) {
	case ".inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(clean, 64)
}

func parseSexagesimalInt(value string) (models.Number, error) {
	neg, parts := splitSexagesimal(value)
	total := new(big.Int)
	base := big.NewInt(60)
	for _, p := range parts {
		d, ok := new(big.Int).SetString(p, 10)
		if !ok {
			return "", fmt.Errorf("invalid sexagesimal integer %q", value)
		}
		total.Mul(total, base)
		total.Add(total, d)
	}
	if neg {
		total.Neg(total)
	}
	return models.Number(total.String()), nil
}

func parseSexagesimalFloat(value string) (float64, error) {
	neg, parts := splitSexagesimal(value)
	total := 0.0
	for _, p := range parts {
		d, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid sexagesimal float %q", value)
		}
		total = total*60 + d
	}
	if neg {
		total = -total
	}
	return total, nil
}

func splitSexagesimal(value string) (bool, []string) {
	clean := strings.ReplaceAll(value, "_", "")
	neg := strings.HasPrefix(clean, "-")
	clean = strings.TrimLeft(clean, "+-")
	return neg, strings.Split(clean, ":")
}

func scalarError(node *yaml.Node, err error) error {
	return apperrors.NewDecodeError(
		fmt.Sprintf("invalid %s scalar %q at line %d, column %d", node.ShortTag(), node.Value, node.Line, node.Column),
		err,
	)
}

// KeyString renders a scalar document value as a JSON object key.
func KeyString(v models.DocumentValue) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case models.Number:
		return val.String()
	case float64:
		if s, ok := models.FormatFloat(val); ok {
			return s
		}
		switch {
		case math.IsNaN(val):
			return "NaN"
		case val > 0:
			return "Infinity"
		default:
			return "-Infinity"
		}
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
