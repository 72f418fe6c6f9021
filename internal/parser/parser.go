package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	apperrors "github.com/mcncl/yaml2json/internal/errors"
	"github.com/mcncl/yaml2json/internal/models"
)

// DefaultMaxNodes bounds how many values a document may expand to once
// aliases are resolved.
const DefaultMaxNodes = 1 << 22

// Options controls how YAML is turned into a document value.
type Options struct {
	Scalars  Mode
	MaxNodes int
}

// DefaultOptions returns YAML 1.1 scalar resolution with the default node limit.
func DefaultOptions() Options {
	return Options{
		Scalars:  ModeYAML11,
		MaxNodes: DefaultMaxNodes,
	}
}

// Parse decodes the single YAML document read from reader. An empty
// stream decodes to a nil root; a second document is an error.
func Parse(reader io.Reader, opts Options) (models.Document, error) {
	if opts.Scalars == "" {
		opts.Scalars = ModeYAML11
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}

	decoder := yaml.NewDecoder(reader)

	var node yaml.Node
	err := decoder.Decode(&node)
	if stderrors.Is(err, io.EOF) {
		return models.Document{}, nil
	}
	if err != nil {
		return models.Document{}, apperrors.NewDecodeError(err.Error(), apperrors.ErrInvalidYAML)
	}

	var next yaml.Node
	err = decoder.Decode(&next)
	switch {
	case stderrors.Is(err, io.EOF):
	case err != nil:
		return models.Document{}, apperrors.NewDecodeError(err.Error(), apperrors.ErrInvalidYAML)
	default:
		return models.Document{}, apperrors.NewDecodeError(
			fmt.Sprintf("second document at line %d", next.Line),
			apperrors.ErrMultipleDocuments,
		)
	}

	w := &walker{opts: opts, visiting: make(map[*yaml.Node]bool)}
	root, err := w.document(&node)
	if err != nil {
		return models.Document{}, err
	}
	return models.Document{Root: root}, nil
}

// ParseString decodes YAML held in a string
func ParseString(yamlString string, opts Options) (models.Document, error) {
	return Parse(strings.NewReader(yamlString), opts)
}

// ParseFile decodes YAML from a file path
func ParseFile(filePath string, opts Options) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, apperrors.NewInputError("file path is empty", apperrors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, apperrors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				apperrors.ErrFileNotFound,
			)
		}
		return models.Document{}, apperrors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, apperrors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.IsDir() {
		return models.Document{}, apperrors.NewInputError(
			fmt.Sprintf("'%s' is a directory", filePath),
			apperrors.ErrInvalidFilePath,
		)
	}

	return Parse(file, opts)
}

// walker converts a yaml.v3 node graph into document values.
type walker struct {
	opts     Options
	visiting map[*yaml.Node]bool
	count    int
}

func (w *walker) document(node *yaml.Node) (models.DocumentValue, error) {
	if node.Kind != yaml.DocumentNode {
		return w.value(node)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	return w.value(node.Content[0])
}

// charge counts n more values against the node budget.
func (w *walker) charge(n int) error {
	w.count += n
	if w.count > w.opts.MaxNodes {
		return apperrors.NewDecodeError(
			fmt.Sprintf("document expands to more than %d values", w.opts.MaxNodes),
			apperrors.ErrInvalidYAML,
		)
	}
	return nil
}

func (w *walker) value(node *yaml.Node) (models.DocumentValue, error) {
	if err := w.charge(1); err != nil {
		return nil, err
	}

	if w.visiting[node] {
		return nil, apperrors.NewDecodeError(
			fmt.Sprintf("line %d, column %d", node.Line, node.Column),
			apperrors.ErrRecursiveAlias,
		)
	}
	w.visiting[node] = true
	defer delete(w.visiting, node)

	switch node.Kind {
	case yaml.DocumentNode:
		return w.document(node)
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, apperrors.NewDecodeError(
				fmt.Sprintf("unknown anchor '%s' at line %d", node.Value, node.Line),
				apperrors.ErrInvalidYAML,
			)
		}
		return w.value(node.Alias)
	case yaml.SequenceNode:
		seq := make(models.Sequence, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := w.value(item)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		return w.mapping(node)
	case yaml.ScalarNode:
		return resolveScalar(node, w.opts.Scalars)
	default:
		return nil, apperrors.NewDecodeError(
			fmt.Sprintf("unsupported node kind %d at line %d", node.Kind, node.Line),
			apperrors.ErrInvalidYAML,
		)
	}
}

// mapping builds an ordered mapping. Merge keys are flattened first so
// that explicit keys of the mapping override merged ones.
func (w *walker) mapping(node *yaml.Node) (models.DocumentValue, error) {
	pairs, err := w.flatten(node)
	if err != nil {
		return nil, err
	}

	out := models.NewMapping(len(pairs) / 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, err := w.key(pairs[i])
		if err != nil {
			return nil, err
		}
		v, err := w.value(pairs[i+1])
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	return out, nil
}

// flatten returns the key/value node pairs of a mapping with every merge
// key replaced by the pairs of the mappings it refers to. Merged pairs are
// charged against the node budget as they are collected.
func (w *walker) flatten(node *yaml.Node) ([]*yaml.Node, error) {
	var merged, own []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if !isMergeKey(k) {
			own = append(own, k, v)
			continue
		}

		sources, err := mergeSources(v)
		if err != nil {
			return nil, err
		}
		// The first source wins on conflicts, so later sources go first.
		for j := len(sources) - 1; j >= 0; j-- {
			src := sources[j]
			if w.visiting[src] {
				return nil, apperrors.NewDecodeError(
					fmt.Sprintf("merge at line %d, column %d", k.Line, k.Column),
					apperrors.ErrRecursiveAlias,
				)
			}
			w.visiting[src] = true
			pairs, err := w.flatten(src)
			delete(w.visiting, src)
			if err != nil {
				return nil, err
			}
			if err := w.charge(len(pairs) / 2); err != nil {
				return nil, err
			}
			merged = append(merged, pairs...)
		}
	}
	return append(merged, own...), nil
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == mergeTag
}

func mergeSources(value *yaml.Node) ([]*yaml.Node, error) {
	value = deref(value)
	switch value.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{value}, nil
	case yaml.SequenceNode:
		sources := make([]*yaml.Node, 0, len(value.Content))
		for _, item := range value.Content {
			item = deref(item)
			if item.Kind != yaml.MappingNode {
				return nil, apperrors.NewDecodeError(
					fmt.Sprintf("merge sequence at line %d must contain only mappings", value.Line),
					apperrors.ErrInvalidYAML,
				)
			}
			sources = append(sources, item)
		}
		return sources, nil
	default:
		return nil, apperrors.NewDecodeError(
			fmt.Sprintf("merge value at line %d must be a mapping or a sequence of mappings", value.Line),
			apperrors.ErrInvalidYAML,
		)
	}
}

func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// key converts a mapping key to the string JSON will use for it.
func (w *walker) key(node *yaml.Node) (string, error) {
	target := deref(node)
	if target.Kind != yaml.ScalarNode {
		return "", apperrors.NewDecodeError(
			fmt.Sprintf("line %d, column %d", node.Line, node.Column),
			errors.Wrapf(apperrors.ErrComplexKey, "%s key", kindName(target.Kind)),
		)
	}
	v, err := resolveScalar(target, w.opts.Scalars)
	if err != nil {
		return "", err
	}
	return KeyString(v), nil
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "scalar"
	}
}
