package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"resumescan/internal/errors"
)

//go:embed default.yaml
var defaultTaxonomy []byte

const (
	keySkills   = "industrySkills"
	keyKeywords = "industryKeywords"
)

// Default returns the taxonomy compiled into the binary.
func Default() (*Taxonomy, error) {
	return Parse(defaultTaxonomy)
}

// Load reads a taxonomy file. An empty path selects the built-in taxonomy.
// Both JSON and YAML documents are accepted.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeTaxonomyUnavailable,
			fmt.Sprintf("taxonomy file %s could not be read", path), err).
			WithContext("path", path)
	}

	t, err := Parse(data)
	if err != nil {
		if appErr, ok := errors.As(err); ok {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	return t, nil
}

// Parse decodes a taxonomy document with top-level industrySkills and
// industryKeywords mappings. Key order in the document fixes industry order.
func Parse(data []byte) (*Taxonomy, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed("taxonomy document is not valid JSON or YAML", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, malformed("taxonomy document is empty", nil)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, malformed("taxonomy document must be a mapping", nil)
	}

	var skillsNode, keywordsNode *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		switch root.Content[i].Value {
		case keySkills:
			skillsNode = root.Content[i+1]
		case keyKeywords:
			keywordsNode = root.Content[i+1]
		}
	}
	if skillsNode == nil {
		return nil, malformed("taxonomy is missing "+keySkills, nil)
	}

	var ordered []*Industry
	byName := make(map[string]*Industry)
	industry := func(name string) *Industry {
		if ind, ok := byName[name]; ok {
			return ind
		}
		ind := &Industry{Name: name}
		byName[name] = ind
		ordered = append(ordered, ind)
		return ind
	}

	if keywordsNode != nil {
		if err := eachPair(keywordsNode, keyKeywords, func(name string, value *yaml.Node) error {
			patterns, err := stringList(value, keyKeywords+"."+name)
			if err != nil {
				return err
			}
			ind := industry(name)
			for _, p := range patterns {
				re, err := regexp.Compile("(?i)" + p)
				if err != nil {
					return malformed(fmt.Sprintf("invalid keyword pattern %q for industry %s", p, name), err)
				}
				ind.Keywords = append(ind.Keywords, re)
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	if err := eachPair(skillsNode, keySkills, func(name string, value *yaml.Node) error {
		ind := industry(name)
		return eachPair(value, keySkills+"."+name, func(cat string, list *yaml.Node) error {
			category, err := ParseCategory(cat)
			if err != nil {
				return malformed(fmt.Sprintf("industry %s: %v", name, err), nil)
			}
			skills, err := stringList(list, keySkills+"."+name+"."+cat)
			if err != nil {
				return err
			}
			ind.Skills.set(category, skills)
			return nil
		})
	}); err != nil {
		return nil, err
	}

	fallback, ok := byName[DefaultIndustry]
	if !ok {
		return nil, malformed("taxonomy must define the "+DefaultIndustry+" industry", nil)
	}
	if fallback.Skills.Len() == 0 {
		return nil, malformed("the "+DefaultIndustry+" industry must list at least one skill", nil)
	}

	return newTaxonomy(ordered), nil
}

func eachPair(node *yaml.Node, path string, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return malformed(path+" must be a mapping", nil)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := strings.TrimSpace(node.Content[i].Value)
		if key == "" {
			return malformed(path+" contains an empty key", nil)
		}
		if err := fn(key, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func stringList(node *yaml.Node, path string) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, malformed(path+" must be a list", nil)
	}
	out := make([]string, 0, len(node.Content))
	seen := make(map[string]struct{}, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, malformed(path+" must only contain strings", nil)
		}
		v := strings.TrimSpace(item.Value)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

func malformed(message string, cause error) error {
	return errors.NewConfigError(errors.ErrCodeTaxonomyMalformed, message, cause)
}
