package models

import "encoding/json"

// ToDocument converts a model into the generic map shape the document store
// accepts. Field names follow the JSON tags, which match the client schema.
func ToDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FromDocument decodes a store document into the given model pointer.
func FromDocument(doc map[string]any, v any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
