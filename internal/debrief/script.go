// Package debrief runs the guided conversation offered after a therapy
// session.
package debrief

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed script.yaml
var defaultScript []byte

// ErrInvalidScript wraps every structural problem found by Validate.
var ErrInvalidScript = errors.New("debrief: invalid script")

// Choice is an answer the user can pick at a node.
type Choice struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Next  string `yaml:"next" json:"next"`
}

// Node is one bot message and the answers offered after it.
type Node struct {
	ID      string   `yaml:"id" json:"id"`
	Message string   `yaml:"message" json:"message"`
	Options []Choice `yaml:"options" json:"options"`
}

// Script is a dialogue graph.
type Script struct {
	Start    string `yaml:"start"`
	Terminal string `yaml:"terminal"`
	Nodes    []Node `yaml:"nodes"`

	index map[string]int
}

// NewScript indexes nodes without validating them.
func NewScript(start, terminal string, nodes []Node) *Script {
	s := &Script{Start: start, Terminal: terminal, Nodes: nodes}
	s.reindex()
	return s
}

func (s *Script) reindex() {
	s.index = make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		if _, dup := s.index[n.ID]; !dup {
			s.index[n.ID] = i
		}
	}
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("debrief: decode script: %w", err)
	}
	s.reindex()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("debrief: read script: %w", err)
	}
	return Parse(data)
}

// MustDefault returns the built-in script.
func MustDefault() *Script {
	s, err := Parse(defaultScript)
	if err != nil {
		panic(err)
	}
	return s
}

// Node looks up a node by id.
func (s *Script) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.Nodes[i], true
}

// Validate checks that every link resolves, that the terminal node exists
// and has no options, that it is the only node without options, and that
// the graph has no cycles. Together these mean every conversation ends at
// the terminal node after finitely many choices.
func (s *Script) Validate() error {
	if len(s.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidScript)
	}
	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node without id", ErrInvalidScript)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node %q", ErrInvalidScript, n.ID)
		}
		seen[n.ID] = true
	}
	if _, ok := s.Node(s.Start); !ok {
		return fmt.Errorf("%w: start node %q not found", ErrInvalidScript, s.Start)
	}
	term, ok := s.Node(s.Terminal)
	if !ok {
		return fmt.Errorf("%w: terminal node %q not found", ErrInvalidScript, s.Terminal)
	}
	if len(term.Options) > 0 {
		return fmt.Errorf("%w: terminal node %q has options", ErrInvalidScript, s.Terminal)
	}

	for _, n := range s.Nodes {
		if n.ID != s.Terminal && len(n.Options) == 0 {
			return fmt.Errorf("%w: node %q is a dead end", ErrInvalidScript, n.ID)
		}
		ids := make(map[string]bool, len(n.Options))
		for _, c := range n.Options {
			if c.ID == "" || ids[c.ID] {
				return fmt.Errorf("%w: node %q has a missing or duplicate option id %q", ErrInvalidScript, n.ID, c.ID)
			}
			ids[c.ID] = true
			if _, ok := s.Node(c.Next); !ok {
				return fmt.Errorf("%w: option %q of node %q links to unknown node %q", ErrInvalidScript, c.ID, n.ID, c.Next)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(s.Nodes))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("%w: cycle through node %q", ErrInvalidScript, id)
		case done:
			return nil
		}
		state[id] = visiting
		n, _ := s.Node(id)
		for _, c := range n.Options {
			if err := visit(c.Next); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, n := range s.Nodes {
		if err := visit(n.ID); err != nil {
			return err
		}
	}
	return nil
}
