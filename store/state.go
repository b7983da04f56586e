package store

import (
	"fmt"
	"strings"
)

// Segments that could redirect a lookup chain in consumers of exported state.
// Writes touching one of these anywhere in the path are rejected before any
// mutation happens.
var blockedSegments = map[string]struct{}{
	"__proto__":   {},
	"prototype":   {},
	"constructor": {},
}

type InvalidPathError struct {
	Path    string
	Segment string
}

func (e InvalidPathError) Error() string {
	return fmt.Sprintf("state path %q contains blocked segment %q", e.Path, e.Segment)
}

func splitStatePath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("state path can not be empty")
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("state path %q has an empty segment", path)
		}
		if _, blocked := blockedSegments[seg]; blocked {
			return nil, InvalidPathError{Path: path, Segment: seg}
		}
	}
	return segments, nil
}

// UpdateState writes value at the dotted path, creating intermediate maps as
// needed. The whole path is validated first; a blocked or malformed path
// leaves the tree untouched.
func (s *Store) UpdateState(path string, value any) error {
	segments, err := splitStatePath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.state
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
	return nil
}

// GetState resolves the dotted path. An empty path returns a copy of the
// whole tree.
func (s *Store) GetState(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if path == "" {
		return copyTree(s.state), true
	}
	segments := strings.Split(path, ".")
	var current any = s.state
	for _, seg := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[seg]
		if !ok {
			return nil, false
		}
	}
	if m, ok := current.(map[string]any); ok {
		return copyTree(m), true
	}
	return current, true
}

func copyTree(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if child, ok := v.(map[string]any); ok {
			out[k] = copyTree(child)
		} else {
			out[k] = v
		}
	}
	return out
}
