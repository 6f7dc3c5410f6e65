package command

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("command: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block was not closed or could not be parsed.
	ErrMalformedFrontMatter = errors.New("command: malformed frontmatter")
)

// Meta holds the frontmatter fields of a slash-command file.
type Meta struct {
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	AllowedTools ToolList `yaml:"allowed-tools,omitempty" json:"allowed_tools,omitempty"`
	ArgumentHint string   `yaml:"argument-hint,omitempty" json:"argument_hint,omitempty"`
	Model        string   `yaml:"model,omitempty" json:"model,omitempty"`
}

// ToolList accepts either a comma separated string or a YAML sequence.
type ToolList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (tl *ToolList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var tools []string
		for _, part := range strings.Split(node.Value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tools = append(tools, trimmed)
			}
		}
		*tl = tools
		return nil
	case yaml.SequenceNode:
		var tools []string
		if err := node.Decode(&tools); err != nil {
			return err
		}
		*tl = tools
		return nil
	default:
		return fmt.Errorf("allowed-tools must be a string or a list")
	}
}

// ParseFrontMatter extracts the metadata block and body from a document that
// starts with `---` YAML fences.
func ParseFrontMatter(content []byte) (Meta, []byte, error) {
	if len(content) == 0 {
		return Meta{}, nil, ErrMissingFrontMatter
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Meta{}, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]
	var metaBytes, body []byte
	if bytes.HasPrefix(rest, []byte("---\n")) {
		body = rest[4:]
	} else {
		parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
		if len(parts) < 2 {
			return Meta{}, nil, ErrMalformedFrontMatter
		}
		metaBytes, body = parts[0], parts[1]
	}
	var meta Meta
	if err := yaml.Unmarshal(metaBytes, &meta); err != nil {
		return Meta{}, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	meta.Description = strings.TrimSpace(meta.Description)
	return meta, body, nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
