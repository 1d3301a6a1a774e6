package inputproto

import (
	"encoding/json"

	"github.com/smilemakc/jobtree"
)

// InlineProtocol is the identity protocol: the "reference" is the
// serialized tree itself. Useful as an always-available fallback and
// for exercising the protocol seam without a real storage backend.
type InlineProtocol struct{}

func (InlineProtocol) Name() string { return "inline" }

func (InlineProtocol) Save(node *jobtree.Node) (json.RawMessage, error) {
	return json.Marshal(node)
}

func (InlineProtocol) Load(body json.RawMessage) (*jobtree.Node, error) {
	var n jobtree.Node
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
