package ive

import "reflect"

// shallowEqual reports whether b is the same value as a for the purpose of
// suppressing notifications. Comparable values use ==, reference types compare
// by identity, slices by backing array and length. Functions never compare
// equal because distinct closures can share a code pointer.
func shallowEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	}

	if !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

// safeEqual compares with ==, treating a runtime panic (an interface field
// holding an uncomparable value) as "changed".
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
