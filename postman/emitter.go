package postman

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/erraggy/restspec/model"
)

// Emitter produces Postman v2.1 collections.
type Emitter struct{}

// NewEmitter returns a Postman emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Name returns the emitter name.
func (e *Emitter) Name() string {
	return "postman-collection"
}

// Extension returns the file extension.
func (e *Emitter) Extension() string {
	return "json"
}

// Emit builds and serializes the collection. Identical models produce
// identical bytes.
func (e *Emitter) Emit(doc *model.Document) ([]byte, error) {
	c, err := Build(doc)
	if err != nil {
		return nil, err
	}
	return Marshal(c)
}

// Marshal serializes a collection as indented JSON without HTML escaping,
// so URLs and examples stay readable.
func Marshal(c *Collection) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("postman: marshaling collection: %w", err)
	}
	return buf.Bytes(), nil
}
