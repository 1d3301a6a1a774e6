package inputproto

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/smilemakc/jobtree"
)

// jqRef is the reference shape JQProtocol saves: the full node encoded
// as a plain document plus a jq query selecting it back out. A real
// deployment would point Document at an externally-stored blob (e.g. a
// wrapped reference id) and use the query to project a sub-document out
// of a larger externally-saved payload; this protocol keeps the
// document inline so it is self-contained and testable without a
// storage dependency, while still exercising the same query-based
// reconstitution path.
type jqRef struct {
	Document json.RawMessage `json:"document"`
	Query    string          `json:"query"`
}

// JQProtocol reconstitutes a Node by running a jq query against a saved
// document, mirroring the teacher's TransformExecutor's
// gojq.Parse/Compile usage.
type JQProtocol struct{}

func (JQProtocol) Name() string { return "jq" }

func (JQProtocol) Save(node *jobtree.Node) (json.RawMessage, error) {
	doc, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("inputproto: jq save: %w", err)
	}
	return json.Marshal(jqRef{Document: doc, Query: "."})
}

func (JQProtocol) Load(body json.RawMessage) (*jobtree.Node, error) {
	var ref jqRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return nil, fmt.Errorf("inputproto: jq load: decode ref: %w", err)
	}

	query, err := gojq.Parse(ref.Query)
	if err != nil {
		return nil, fmt.Errorf("inputproto: jq load: parse query %q: %w", ref.Query, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("inputproto: jq load: compile query %q: %w", ref.Query, err)
	}

	var doc any
	if err := json.Unmarshal(ref.Document, &doc); err != nil {
		return nil, fmt.Errorf("inputproto: jq load: decode document: %w", err)
	}

	iter := code.Run(doc)
	v, ok := iter.Next()
	if !ok {
		return nil, fmt.Errorf("inputproto: jq load: query %q produced no result", ref.Query)
	}
	if err, isErr := v.(error); isErr {
		return nil, fmt.Errorf("inputproto: jq load: query %q failed: %w", ref.Query, err)
	}

	selected, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("inputproto: jq load: re-encode selection: %w", err)
	}
	var n jobtree.Node
	if err := json.Unmarshal(selected, &n); err != nil {
		return nil, fmt.Errorf("inputproto: jq load: decode node: %w", err)
	}
	return &n, nil
}
