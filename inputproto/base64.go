package inputproto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/smilemakc/jobtree"
)

// Base64Protocol externalizes the serialized tree as a base64-encoded
// reference string, the encoding convention of the teacher's
// BytesToJsonExecutor adapter applied to the reverse direction (JSON ->
// opaque bytes-shaped ref rather than bytes -> JSON).
type Base64Protocol struct{}

func (Base64Protocol) Name() string { return "base64" }

func (Base64Protocol) Save(node *jobtree.Node) (json.RawMessage, error) {
	raw, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("inputproto: base64 save: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	return json.Marshal(encoded)
}

func (Base64Protocol) Load(body json.RawMessage) (*jobtree.Node, error) {
	var encoded string
	if err := json.Unmarshal(body, &encoded); err != nil {
		return nil, fmt.Errorf("inputproto: base64 load: decode ref: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("inputproto: base64 load: decode payload: %w", err)
	}
	var n jobtree.Node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("inputproto: base64 load: decode node: %w", err)
	}
	return &n, nil
}
