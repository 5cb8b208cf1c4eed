package graph

// StateSchema defines the structure and update logic for a typed graph state.
type StateSchema[S any] interface {
	// Init returns the initial state.
	Init() S

	// Update merges the new (partial) state into the current state.
	Update(current, new S) (S, error)
}

// SchemaFuncs adapts plain functions to StateSchema.
type SchemaFuncs[S any] struct {
	InitFunc   func() S
	UpdateFunc func(current, new S) (S, error)
}

// Init returns the initial state, or the zero value when InitFunc is nil.
func (s SchemaFuncs[S]) Init() S {
	if s.InitFunc == nil {
		var zero S
		return zero
	}
	return s.InitFunc()
}

// Update merges new into current. A nil UpdateFunc overwrites.
func (s SchemaFuncs[S]) Update(current, new S) (S, error) {
	if s.UpdateFunc == nil {
		return new, nil
	}
	return s.UpdateFunc(current, new)
}

// OverwriteSchema returns a schema whose updates replace the whole state.
func OverwriteSchema[S any]() StateSchema[S] {
	return SchemaFuncs[S]{}
}
