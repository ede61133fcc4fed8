package params

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Attr is a single named attribute in a parameter set.
type Attr struct {
	// Name is the attribute name.
	Name string `json:"name"`

	// Value is the attribute value.
	Value string `json:"value"`
}

// Set is an ordered name -> value mapping of operation attributes.
// Insertion order is preserved; setting an existing name overwrites the
// value in place. The zero value is an empty set ready for use.
//
// Set is owned by its caller and is not safe for concurrent mutation.
type Set struct {
	attrs []Attr
	index map[string]int
}

// New creates an empty parameter set.
func New() *Set {
	return &Set{index: make(map[string]int)}
}

// FromPairs creates a parameter set from alternating name, value arguments.
func FromPairs(pairs ...string) *Set {
	if len(pairs)%2 != 0 {
		panic("params.FromPairs: odd number of arguments")
	}
	s := New()
	for i := 0; i < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

// Len returns the number of attributes in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.attrs)
}

// Get returns the value for name, or the empty string if absent.
func (s *Set) Get(name string) string {
	v, _ := s.Lookup(name)
	return v
}

// Lookup returns the value for name and whether it is present.
func (s *Set) Lookup(name string) (string, bool) {
	if s == nil || s.index == nil {
		return "", false
	}
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.attrs[i].Value, true
}

// Set stores value under name, overwriting any existing value in place.
func (s *Set) Set(name, value string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		s.attrs[i].Value = value
		return
	}
	s.index[name] = len(s.attrs)
	s.attrs = append(s.attrs, Attr{Name: name, Value: value})
}

// Remove deletes name from the set. It reports whether the attribute was
// present. The relative order of the remaining attributes is preserved.
func (s *Set) Remove(name string) bool {
	if s == nil || s.index == nil {
		return false
	}
	i, ok := s.index[name]
	if !ok {
		return false
	}
	s.attrs = append(s.attrs[:i], s.attrs[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.attrs); j++ {
		s.index[s.attrs[j].Name] = j
	}
	return true
}

// Names returns the attribute names in insertion order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		names[i] = a.Name
	}
	return names
}

// Each calls fn for every attribute in insertion order. The iteration runs
// over a snapshot of the current attributes, so fn may remove entries
// (including the one it was called with) without disturbing the walk.
func (s *Set) Each(fn func(name, value string)) {
	if s == nil {
		return
	}
	snapshot := make([]Attr, len(s.attrs))
	copy(snapshot, s.attrs)
	for _, a := range snapshot {
		fn(a.Name, a.Value)
	}
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	out := New()
	if s == nil {
		return out
	}
	for _, a := range s.attrs {
		out.Set(a.Name, a.Value)
	}
	return out
}

// Attrs returns a copy of the attributes in insertion order.
func (s *Set) Attrs() []Attr {
	if s == nil {
		return nil
	}
	out := make([]Attr, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// MarshalJSON encodes the set as an ordered array of attributes.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Attrs())
}

// UnmarshalJSON decodes an ordered array of attributes.
func (s *Set) UnmarshalJSON(data []byte) error {
	var attrs []Attr
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	*s = *New()
	for _, a := range attrs {
		s.Set(a.Name, a.Value)
	}
	return nil
}

// MarshalYAML encodes the set as an ordered YAML mapping.
func (s *Set) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range s.attrs {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: a.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: a.Value},
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, preserving document order.
func (s *Set) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("parameter set must be a mapping, got %v", node.Kind)
	}
	*s = *New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		s.Set(node.Content[i].Value, node.Content[i+1].Value)
	}
	return nil
}
