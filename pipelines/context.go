package pipelines

import (
	"fmt"
	"sync"
)

// Well-known context keys shared between the engine and its stages.
const (
	// ContextKeyLastGrid holds the grid cached by the detection stage;
	// incremental runs patch it in place.
	ContextKeyLastGrid = "last_grid"
	// ContextKeyOptions holds recognizer options stages may consult.
	ContextKeyOptions = "options"
)

// RecognizerContext is the shared state a pipeline run threads through
// its stages. It is safe for concurrent use.
type RecognizerContext struct {
	mu       sync.RWMutex
	data     map[string]StageValue
	metadata map[string]string
}

// NewRecognizerContext creates an empty context.
func NewRecognizerContext() *RecognizerContext {
	return &RecognizerContext{
		data:     make(map[string]StageValue),
		metadata: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (rc *RecognizerContext) Get(key string) (StageValue, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	v, ok := rc.data[key]
	return v, ok
}

// GetTyped returns the value under key if it has the requested type tag.
func (rc *RecognizerContext) GetTyped(key, valueType string) (StageValue, error) {
	v, ok := rc.Get(key)
	if !ok {
		return nil, fmt.Errorf("context key %q not set", key)
	}
	if v.Type() != valueType {
		return nil, fmt.Errorf("context key %q holds %q, want %q", key, v.Type(), valueType)
	}
	return v, nil
}

// Set stores a value under key, replacing any previous value.
func (rc *RecognizerContext) Set(key string, value StageValue) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.data[key] = value
}

// Delete removes the value under key.
func (rc *RecognizerContext) Delete(key string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	delete(rc.data, key)
}

// Keys returns the set of stored keys in unspecified order.
func (rc *RecognizerContext) Keys() []string {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	keys := make([]string, 0, len(rc.data))
	for k := range rc.data {
		keys = append(keys, k)
	}
	return keys
}

// Size returns the number of stored values.
func (rc *RecognizerContext) Size() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.data)
}

// Clone returns a deep copy of the context.
func (rc *RecognizerContext) Clone() *RecognizerContext {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	out := NewRecognizerContext()
	for k, v := range rc.data {
		out.data[k] = v.Clone()
	}
	for k, v := range rc.metadata {
		out.metadata[k] = v
	}
	return out
}

// SetMetadata stores a metadata string under key.
func (rc *RecognizerContext) SetMetadata(key, value string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.metadata[key] = value
}

// Metadata returns the metadata string under key.
func (rc *RecognizerContext) Metadata(key string) (string, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	v, ok := rc.metadata[key]
	return v, ok
}
