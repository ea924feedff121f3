// Package barewire is a schema-driven binary serialization library
// implementing the BARE wire format, with typed zero-copy memory views
// layered on top.
//
// The explicit, schema-first API lives in the subpackages: schema (model,
// validator, analyzer), wire (streaming codec), view (typed memory view)
// and frame (envelope container). This package adds a convenience
// reflection front-end: Marshal and Unmarshal derive a BARE struct schema
// from a Go struct's exported fields and drive the same wire codec the
// schema-first API uses. Every byte it emits is producible through the
// explicit API too.
package barewire

import (
	"errors"
	"reflect"
	"sync"

	"github.com/rawbytedev/barewire/schema"
	"github.com/rawbytedev/barewire/wire"
)

var (
	ErrNotStruct    = errors.New("expected struct")
	ErrNotStructPtr = errors.New("expected pointer to struct")
	ErrUnsupported  = errors.New("unsupported type")
)

// Options controls decode-time behaviour.
type Options struct {
	// UnsafeStrings aliases decoded byte payloads as strings without the
	// final copy. The caller must not mutate the decoded struct's backing
	// buffers while such strings are live.
	UnsafeStrings bool
}

// Codec marshals Go structs to BARE bytes and back. It caches one derived
// schema plan per struct type; the cache is the only mutable shared state
// and is guarded for concurrent use.
type Codec struct {
	Opts Options

	mu    sync.RWMutex
	plans map[reflect.Type]*typePlan
}

type typePlan struct {
	typ      schema.SchemaType // always KStruct
	sizeHint int
}

var defaultCodec Codec

// Marshal encodes v (a struct or pointer to struct) with the default codec.
func Marshal(v any) ([]byte, error) { return defaultCodec.Marshal(v) }

// Unmarshal decodes data into out (a pointer to struct) with the default
// codec.
func Unmarshal(data []byte, out any) error { return defaultCodec.Unmarshal(data, out) }

// SchemaOf derives the BARE schema type for v's struct type. It is the
// bridge from the reflection front-end to the explicit schema API: the
// returned type can be validated, sized, and used to decode Marshal's
// output with wire.Decode.
func SchemaOf(v any) (schema.SchemaType, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return schema.SchemaType{}, ErrNotStruct
	}
	return deriveType(t)
}

func (c *Codec) Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}
	p, err := c.plan(rv.Type())
	if err != nil {
		return nil, err
	}
	w := wire.NewWriter(p.sizeHint)
	if err := encodeValue(w, p.typ, rv); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *Codec) Unmarshal(data []byte, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	dst := rv.Elem()
	p, err := c.plan(dst.Type())
	if err != nil {
		return err
	}
	r := wire.NewReader(data)
	return decodeValue(r, p.typ, dst, c.Opts)
}

// plan returns the cached schema plan for t, deriving it on first use.
func (c *Codec) plan(t reflect.Type) (*typePlan, error) {
	c.mu.RLock()
	if p, ok := c.plans[t]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.plans[t]; ok {
		return p, nil
	}

	st, err := deriveType(t)
	if err != nil {
		return nil, err
	}
	hint, err := sizeHint(st)
	if err != nil {
		return nil, err
	}
	p := &typePlan{typ: st, sizeHint: hint}
	if c.plans == nil {
		c.plans = make(map[reflect.Type]*typePlan)
	}
	c.plans[t] = p
	return p, nil
}

// sizeHint pre-sizes the write buffer from the derived schema's minimum
// size, padded for length-prefixed content.
func sizeHint(st schema.SchemaType) (int, error) {
	s := schema.New().Define("Root", st).SetRoot("Root")
	sz, err := schema.SizeOf(schema.Native64(), s, st)
	if err != nil {
		return 0, err
	}
	if sz.IsFixed() {
		return sz.Min, nil
	}
	return sz.Min + 32, nil
}
