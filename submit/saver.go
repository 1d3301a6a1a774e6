package submit

import (
	"encoding/json"
	"fmt"

	"github.com/smilemakc/jobtree"
)

// Saver externalizes a Job subtree under a named protocol, producing an
// opaque reference body a matching replay.InputLoader can later
// reconstitute. Concrete protocol handlers live in package inputproto;
// this is the seam submission depends on (spec.md §4.7 step 2).
type Saver interface {
	Save(protocol string, node *jobtree.Node) (body json.RawMessage, err error)
}

// NoProtocols is a Saver that rejects every protocol name. Use it when
// input externalization is not configured.
type NoProtocols struct{}

func (NoProtocols) Save(protocol string, _ *jobtree.Node) (json.RawMessage, error) {
	return nil, fmt.Errorf("submit: no input protocol handler registered for %q", protocol)
}

// wireInput builds spec.md §6's wire payload: {"protocol": "<name>",
// "body": <opaque-ref>} when protocol is set, or {"protocol": null,
// "body": <serialized-tree>} otherwise.
func wireInput(job *jobtree.Node, protocol string, saver Saver) (string, error) {
	if protocol == "" {
		body, err := json.Marshal(job)
		if err != nil {
			return "", fmt.Errorf("submit: serialize job: %w", err)
		}
		envelope := struct {
			Protocol *string         `json:"protocol"`
			Body     json.RawMessage `json:"body"`
		}{Protocol: nil, Body: body}
		raw, err := json.Marshal(envelope)
		if err != nil {
			return "", fmt.Errorf("submit: encode wire input: %w", err)
		}
		return string(raw), nil
	}

	ref, err := saver.Save(protocol, job)
	if err != nil {
		return "", fmt.Errorf("submit: externalize job via protocol %q: %w", protocol, err)
	}
	envelope := struct {
		Protocol string          `json:"protocol"`
		Body     json.RawMessage `json:"body"`
	}{Protocol: protocol, Body: ref}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("submit: encode wire input: %w", err)
	}
	return string(raw), nil
}
