package jobtree

import (
	"encoding/json"
	"fmt"
)

// jobBody / taskBody / actionBody mirror the wire shape of each variant.
// The outer JSON key carries the tag so the wire format matches the
// reference implementation's tagged-union encoding: {"Job": {...}}.
type jobBody struct {
	Title    string  `json:"title"`
	Parallel bool    `json:"parallel,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

type taskBody struct {
	Title    string  `json:"title"`
	Parallel bool    `json:"parallel,omitempty"`
	When     string  `json:"when,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

type actionBody struct {
	Role      string         `json:"role,omitempty"`
	WhenError bool           `json:"when_error,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

// MarshalJSON encodes the node as a single-key tagged object.
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindJob:
		return json.Marshal(map[string]jobBody{
			"Job": {Title: n.Title, Parallel: n.Parallel, Children: n.Children},
		})
	case KindTask:
		return json.Marshal(map[string]taskBody{
			"Task": {Title: n.Title, Parallel: n.Parallel, When: n.When, Children: n.Children},
		})
	case KindAction:
		return json.Marshal(map[string]actionBody{
			"Action": {Role: n.Role, WhenError: n.WhenError, Params: n.Params},
		})
	default:
		return nil, fmt.Errorf("jobtree: unknown node kind %v", n.Kind)
	}
}

// UnmarshalJSON decodes a single-key tagged object back into a Node.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("jobtree: decode node envelope: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("jobtree: node envelope must have exactly one tag key, got %d", len(raw))
	}

	for tag, body := range raw {
		switch tag {
		case "Job":
			var b jobBody
			if err := json.Unmarshal(body, &b); err != nil {
				return fmt.Errorf("jobtree: decode Job: %w", err)
			}
			n.Kind = KindJob
			n.Title, n.Parallel, n.Children = b.Title, b.Parallel, b.Children
		case "Task":
			var b taskBody
			if err := json.Unmarshal(body, &b); err != nil {
				return fmt.Errorf("jobtree: decode Task: %w", err)
			}
			n.Kind = KindTask
			n.Title, n.Parallel, n.When, n.Children = b.Title, b.Parallel, b.When, b.Children
		case "Action":
			var b actionBody
			if err := json.Unmarshal(body, &b); err != nil {
				return fmt.Errorf("jobtree: decode Action: %w", err)
			}
			n.Kind = KindAction
			n.Role, n.WhenError, n.Params = b.Role, b.WhenError, b.Params
			if n.Params == nil {
				n.Params = map[string]any{}
			}
		default:
			return fmt.Errorf("jobtree: unknown node tag %q", tag)
		}
	}
	return nil
}
