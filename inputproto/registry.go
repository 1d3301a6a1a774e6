package inputproto

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/smilemakc/jobtree"
)

// Protocol is a named save/load handler pair for input externalization.
// Saver produces an opaque reference body from a Node; Loader
// reconstitutes the Node from that body. The two halves share a name so
// a submitted job can be loaded back by whichever worker/decider process
// next reads its history.
type Protocol interface {
	Name() string
	Save(node *jobtree.Node) (body json.RawMessage, err error)
	Load(body json.RawMessage) (*jobtree.Node, error)
}

// Registry is a per-instance map of protocol name to Protocol (spec.md
// §9's "Registries" guidance: per-instance, not a package-level global).
// It implements both replay.InputLoader and submit.Saver.
type Registry struct {
	mu        sync.RWMutex
	protocols map[string]Protocol
}

// NewRegistry returns a Registry with the built-in protocols (inline,
// base64, jq) pre-registered.
func NewRegistry() *Registry {
	r := &Registry{protocols: make(map[string]Protocol)}
	for _, p := range []Protocol{InlineProtocol{}, Base64Protocol{}, JQProtocol{}} {
		_ = r.Register(p)
	}
	return r
}

// Register binds a Protocol under its own Name(), the extension point
// spec.md §6 calls `input_handler.saver(protocol) / loader(protocol)`.
func (r *Registry) Register(p Protocol) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.protocols[p.Name()]; exists {
		return fmt.Errorf("inputproto: protocol %q already registered", p.Name())
	}
	r.protocols[p.Name()] = p
	return nil
}

func (r *Registry) lookup(name string) (Protocol, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.protocols[name]
	if !ok {
		return nil, fmt.Errorf("inputproto: no protocol registered for %q", name)
	}
	return p, nil
}

// Save implements submit.Saver.
func (r *Registry) Save(protocol string, node *jobtree.Node) (json.RawMessage, error) {
	p, err := r.lookup(protocol)
	if err != nil {
		return nil, err
	}
	return p.Save(node)
}

// Load implements replay.InputLoader.
func (r *Registry) Load(protocol string, body json.RawMessage) (*jobtree.Node, error) {
	p, err := r.lookup(protocol)
	if err != nil {
		return nil, err
	}
	return p.Load(body)
}
