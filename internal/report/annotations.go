package report

import "sync"

// annotationKeySep joins the composite annotation key. The separator cannot
// appear in country names or normalized codes.
const annotationKeySep = "|||"

// AnnotationKey builds the stable identity that user-entered YoY annotations
// are stored under. Keying by (country, clientCode) instead of row position
// means annotations survive re-sorting and re-aggregation; the previous
// row-index scheme silently attached figures to the wrong client whenever
// the ordering changed.
func AnnotationKey(country, clientCode string) string {
	return country + annotationKeySep + clientCode
}

// Annotation holds the user-entered figures for one YoY row: the sales
// target, the confirmed-order amount, and a free-form note. These are never
// computed, only entered.
type Annotation struct {
	Target    int64  `json:"target"`
	Confirmed int64  `json:"confirmed"`
	Note      string `json:"note"`
}

// Annotations is an in-memory annotation store, safe for concurrent use by
// HTTP handlers. Annotations live only for the process lifetime.
type Annotations struct {
	mu    sync.RWMutex
	byKey map[string]Annotation
}

// NewAnnotations returns an empty store.
func NewAnnotations() *Annotations {
	return &Annotations{byKey: make(map[string]Annotation)}
}

// Get returns the annotation stored under key.
func (a *Annotations) Get(key string) (Annotation, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ann, ok := a.byKey[key]
	return ann, ok
}

// Set stores ann under key, replacing any previous value.
func (a *Annotations) Set(key string, ann Annotation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byKey[key] = ann
}

// Delete removes the annotation under key.
func (a *Annotations) Delete(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.byKey, key)
}

// Len reports the number of stored annotations.
func (a *Annotations) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.byKey)
}
