package chainplan

// Store records phase outputs in execution order. It is append-only: a phase
// name can be written exactly once, and Names preserves insertion order.
//
// A Store is only ever touched by the goroutine running the chain, so no
// locking is needed.
type Store struct {
	names   []string
	outputs map[string]string
}

// NewStore creates an empty output store.
func NewStore() *Store {
	return &Store{outputs: make(map[string]string)}
}

// Put records the output of a phase. Writing a name twice is an error.
func (s *Store) Put(name, output string) error {
	if _, exists := s.outputs[name]; exists {
		return &PhaseError{Phase: name, Err: ErrDuplicatePhase}
	}
	s.names = append(s.names, name)
	s.outputs[name] = output
	return nil
}

// Get returns the output of a phase, if present.
func (s *Store) Get(name string) (string, bool) {
	out, ok := s.outputs[name]
	return out, ok
}

// MustGet returns the output of a phase, or "" if absent.
func (s *Store) MustGet(name string) string {
	return s.outputs[name]
}

// Names returns the recorded phase names in execution order.
func (s *Store) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Len returns the number of recorded outputs.
func (s *Store) Len() int {
	return len(s.names)
}

// Snapshot returns the outputs as a map for template rendering.
func (s *Store) Snapshot() map[string]string {
	m := make(map[string]string, len(s.outputs))
	for k, v := range s.outputs {
		m[k] = v
	}
	return m
}
