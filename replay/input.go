package replay

import (
	"encoding/json"
	"fmt"

	"github.com/smilemakc/jobtree"
)

// InputLoader reconstitutes an externalized input payload. Concrete
// protocol handlers live in package inputproto; this interface is the
// seam the history parser depends on (spec.md §6 "named loader
// reconstitutes the original subtree").
type InputLoader interface {
	Load(protocol string, body json.RawMessage) (*jobtree.Node, error)
}

// NoProtocols is an InputLoader that rejects every protocol name. Use it
// when externalization is not configured.
type NoProtocols struct{}

func (NoProtocols) Load(protocol string, _ json.RawMessage) (*jobtree.Node, error) {
	return nil, fmt.Errorf("replay: no input protocol handler registered for %q", protocol)
}

// ParseInput decodes a wire input document (spec.md §6 "Wire payload"):
// either {"protocol": "<name>", "body": <opaque-ref>} — in which case the
// named loader reconstitutes the subtree — or a plain Job/Task/Action
// envelope used as-is.
func ParseInput(raw string, loader InputLoader) (*jobtree.Node, error) {
	var envelope struct {
		Protocol *string         `json:"protocol"`
		Body     json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil && len(envelope.Body) > 0 {
		if envelope.Protocol != nil && *envelope.Protocol != "" {
			return loader.Load(*envelope.Protocol, envelope.Body)
		}
		var n jobtree.Node
		if err := json.Unmarshal(envelope.Body, &n); err != nil {
			return nil, fmt.Errorf("replay: decode enveloped body: %w", err)
		}
		return &n, nil
	}

	var n jobtree.Node
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, fmt.Errorf("replay: decode input: %w", err)
	}
	return &n, nil
}
