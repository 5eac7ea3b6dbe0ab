package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts a species name or an integer identifier.
func (d *DaughterRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: daughter must be a name or identifier", node.Line)
	}
	d.Pos = Position{Line: node.Line, Column: node.Column}
	if node.Tag == "!!int" {
		return node.Decode(&d.PDG)
	}
	d.Name = node.Value
	return nil
}

// DecodeYAML decodes catalogue source held in memory. Unknown fields are
// rejected.
func DecodeYAML(src []byte, filename string) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(src))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("%s: %v", filename, err)}
	}

	// A second pass over the node tree recovers entry positions, which the
	// strict struct decoder does not expose.
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err == nil {
		annotatePositions(&f, &root, filename)
	}
	return &f, nil
}

// LoadYAMLFile reads and decodes one YAML catalogue.
func LoadYAMLFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	return DecodeYAML(src, path)
}

func annotatePositions(f *File, root *yaml.Node, filename string) {
	for i := range f.Species {
		for j := range f.Species[i].Decays {
			for k := range f.Species[i].Decays[j].Daughters {
				f.Species[i].Decays[j].Daughters[k].Pos.File = filename
			}
		}
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return
	}
	species := mappingValue(root.Content[0], "species")
	if species == nil || species.Kind != yaml.SequenceNode {
		return
	}
	for i, item := range species.Content {
		if i >= len(f.Species) {
			break
		}
		f.Species[i].Pos = Position{File: filename, Line: item.Line, Column: item.Column}

		decays := mappingValue(item, "decays")
		if decays == nil || decays.Kind != yaml.SequenceNode {
			continue
		}
		for j, d := range decays.Content {
			if j >= len(f.Species[i].Decays) {
				break
			}
			f.Species[i].Decays[j].Pos = Position{File: filename, Line: d.Line, Column: d.Column}
		}
	}
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
