// Package attr provides typed attribute keys and a small attribute map used
// by exchanges and sessions.
//
// Keys carry a stable string name. Explicit keys are created with NewKey;
// TypeKey derives the name from the Go type itself (package path plus type
// name), so two keys for the same type are interchangeable even when created
// in different places.
//
//	var cartKey = attr.NewKey[*Cart]("shop.cart")
//
//	m := attr.Map{}
//	cart := attr.GetOrInit(m, cartKey, func() *Cart { return &Cart{} })
package attr

import (
	"fmt"
	"reflect"
)

// Key identifies a value of type T inside a Map.
type Key[T any] struct {
	name string
}

// NewKey creates an explicit key. Panics on an empty name.
func NewKey[T any](name string) Key[T] {
	if name == "" {
		panic("attr: key name must not be empty")
	}
	return Key[T]{name: name}
}

// TypeKey returns the key identified by T's qualified type name.
func TypeKey[T any]() Key[T] {
	return Key[T]{name: TypeName[T]()}
}

// Name returns the key's stable name.
func (k Key[T]) Name() string {
	return k.name
}

func (k Key[T]) String() string {
	return k.name
}

// TypeName canonicalizes T to "<import path>.<Name>", prefixing "*" for
// pointers and "[]" for slices. Unnamed types fall back to their Go syntax.
func TypeName[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + typeName(t.Elem())
		}
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return fmt.Sprintf("%s.%s", t.PkgPath(), t.Name())
}

// Map stores attributes by key name. It is not synchronized.
type Map map[string]any

// Lookup returns the value stored under key and whether it is present with
// the expected type.
func Lookup[T any](m Map, key Key[T]) (T, bool) {
	v, ok := m[key.name].(T)
	return v, ok
}

// Get returns the value stored under key or the zero value of T.
func Get[T any](m Map, key Key[T]) T {
	v, _ := Lookup(m, key)
	return v
}

// Set stores v under key.
func Set[T any](m Map, key Key[T], v T) {
	m[key.name] = v
}

// GetOrInit returns the stored value or stores and returns supplier().
// A value of a different type under the same name is replaced.
func GetOrInit[T any](m Map, key Key[T], supplier func() T) T {
	if v, ok := m[key.name].(T); ok {
		return v
	}
	v := supplier()
	m[key.name] = v
	return v
}

// Delete removes key from m.
func Delete[T any](m Map, key Key[T]) {
	delete(m, key.name)
}
