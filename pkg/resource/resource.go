// Package resource provides API resource transformers: a Transformer turns a
// model into the exact JSON shape the API exposes, so storage concerns never
// leak into responses.
//
//	func orderShape(o models.Order) resource.Map {
//	    return resource.Map{"order_id": o.OrderCode, "status": o.Status}
//	}
//
//	resource.Item(orderShape, order).Respond(w)
//	resource.Collection(orderShape, orders).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"
)

// Map is the JSON shape produced by a transformer.
type Map = map[string]interface{}

// Transformer converts one model instance into the exposed Map.
type Transformer[T any] func(T) Map

// ------------------- Single resource -------------------

// Resource wraps a single model with its transformer.
type Resource[T any] struct {
	transform Transformer[T]
	data      T
	meta      Map
}

// Item creates a Resource for a single model instance.
func Item[T any](t Transformer[T], data T) *Resource[T] {
	return &Resource[T]{transform: t, data: data}
}

// WithMeta attaches additional metadata to the response envelope.
func (r *Resource[T]) WithMeta(meta Map) *Resource[T] {
	r.meta = meta
	return r
}

// MarshalJSON implements json.Marshaler so a Resource can be nested.
func (r *Resource[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transform(r.data))
}

// Respond writes the resource as JSON with status 200.
func (r *Resource[T]) Respond(w http.ResponseWriter) {
	out := Map{"data": r.transform(r.data)}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------- Collection resource -------------------

// CollectionResource wraps a slice of models with a transformer.
type CollectionResource[T any] struct {
	transform Transformer[T]
	items     []T
	meta      Map
}

// Collection creates a CollectionResource from a slice.
func Collection[T any](t Transformer[T], items []T) *CollectionResource[T] {
	return &CollectionResource[T]{transform: t, items: items}
}

// WithMeta attaches extra metadata.
func (c *CollectionResource[T]) WithMeta(meta Map) *CollectionResource[T] {
	c.meta = meta
	return c
}

// Transformed returns the transformed slice without writing a response.
func (c *CollectionResource[T]) Transformed() []Map {
	result := make([]Map, 0, len(c.items))
	for _, item := range c.items {
		result = append(result, c.transform(item))
	}
	return result
}

// Respond writes the collection as JSON with status 200.
func (c *CollectionResource[T]) Respond(w http.ResponseWriter) {
	out := Map{"data": c.Transformed()}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------- Helpers -------------------

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
