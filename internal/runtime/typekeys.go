package runtime

import "reflect"

// KeyOf returns the binding type key for T. T may be a concrete message type
// or an interface.
func KeyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// typeKeys builds the ordered list of type keys probed for a message type:
// the type itself first, then its embedded types depth-first in field
// declaration order, then every bound interface the type implements, in
// binding order. The wildcard bucket is probed separately by the locator.
// Reflection field order is deterministic, so resolution order is stable for
// a given message type and registry snapshot.
func typeKeys(msgType reflect.Type, interfaceKeys []reflect.Type) []reflect.Type {
	if msgType == nil {
		return nil
	}

	keys := make([]reflect.Type, 0, 4)
	keys = append(keys, msgType)
	keys = appendEmbedded(keys, derefType(msgType))

	for _, iface := range interfaceKeys {
		if msgType.Implements(iface) {
			keys = append(keys, iface)
		}
	}
	return keys
}

// appendEmbedded walks anonymous struct fields, treating them as the
// message's ancestor chain.
func appendEmbedded(keys []reflect.Type, t reflect.Type) []reflect.Type {
	if t == nil || t.Kind() != reflect.Struct {
		return keys
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		embedded := derefType(field.Type)
		if embedded.Kind() != reflect.Struct {
			continue
		}
		keys = append(keys, embedded)
		keys = appendEmbedded(keys, embedded)
	}
	return keys
}

func derefType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
