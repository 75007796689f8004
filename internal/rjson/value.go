package rjson

// Value is the parsed representation of a relaxed-notation document. It is
// one of: *Object, []Value, string, int64, float64, bool, or nil.
type Value = any

// Object is a mapping that preserves the order in which keys first appeared.
// Parsed config documents rely on that order (sibling control-flow clauses in
// packed scripts, for example, are emitted in key order).
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Set stores a value under key, appending the key to the order on first use.
// It returns the Object to allow chained construction.
func (o *Object) Set(key string, v Value) *Object {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
	return o
}

// Get returns the value stored under key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

// Keys returns the keys in first-appearance order. The returned slice is
// shared; callers must not modify it.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}
