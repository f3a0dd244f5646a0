// Package hash implements the deterministic input hasher used to key
// cache entries.
package hash

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/svsamipillai/machine/internal/core/domain"
	"github.com/svsamipillai/machine/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputHasher = (*Hasher)(nil)

// Hasher produces a stable 64-bit identifier from an input map by
// feeding a canonical byte encoding into XXHash. Map keys are visited
// in sorted order, so two maps with the same key/value pairs hash
// identically regardless of insertion order.
//
// Values that have no canonical encoding (functions, channels, complex
// numbers, NaN, cyclic structures) fail explicitly with
// domain.ErrUnhashableInput; the hasher never degrades to an empty or
// garbage hash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashInputs computes the canonical hash of the inputs.
func (h *Hasher) HashInputs(inputs domain.Inputs) (string, error) {
	digest := xxhash.New()

	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[uintptr]struct{})
	for _, k := range keys {
		_, _ = digest.WriteString(k)
		_, _ = digest.Write([]byte{0})
		if err := writeValue(digest, reflect.ValueOf(inputs[k]), seen); err != nil {
			return "", zerr.With(err, "input", k)
		}
		_, _ = digest.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

var timeType = reflect.TypeOf(time.Time{})

// writeValue appends the canonical encoding of v to the digest. Each
// value is prefixed with a one-byte kind tag and terminated with a NUL
// separator so that adjacent values cannot collide.
//
//nolint:cyclop // exhaustive kind switch
func writeValue(digest *xxhash.Digest, v reflect.Value, seen map[uintptr]struct{}) error {
	if !v.IsValid() {
		_, _ = digest.Write([]byte{'z', 0})
		return nil
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			_, _ = digest.Write([]byte{'z', 0})
			return nil
		}
		return writeValue(digest, v.Elem(), seen)

	case reflect.Pointer:
		if v.IsNil() {
			_, _ = digest.Write([]byte{'z', 0})
			return nil
		}
		ptr := v.Pointer()
		if _, ok := seen[ptr]; ok {
			return zerr.With(domain.ErrUnhashableInput, "reason", "cyclic structure")
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)
		return writeValue(digest, v.Elem(), seen)

	case reflect.Bool:
		tag := byte(0)
		if v.Bool() {
			tag = 1
		}
		_, _ = digest.Write([]byte{'b', tag, 0})
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, _ = digest.Write([]byte{'i'})
		_, _ = digest.WriteString(strconv.FormatInt(v.Int(), 10))
		_, _ = digest.Write([]byte{0})
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		_, _ = digest.Write([]byte{'u'})
		_, _ = digest.WriteString(strconv.FormatUint(v.Uint(), 10))
		_, _ = digest.Write([]byte{0})
		return nil

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return zerr.With(domain.ErrUnhashableInput, "reason", "non-finite float")
		}
		_, _ = digest.Write([]byte{'f'})
		_, _ = digest.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		_, _ = digest.Write([]byte{0})
		return nil

	case reflect.String:
		_, _ = digest.Write([]byte{'s'})
		_, _ = digest.WriteString(v.String())
		_, _ = digest.Write([]byte{0})
		return nil

	case reflect.Slice, reflect.Array:
		return writeSequence(digest, v, seen)

	case reflect.Map:
		return writeMap(digest, v, seen)

	case reflect.Struct:
		return writeStruct(digest, v, seen)

	default:
		// Func, Chan, Complex, UnsafePointer and anything else without
		// a canonical encoding.
		return zerr.With(domain.ErrUnhashableInput, "kind", v.Kind().String())
	}
}

func writeSequence(digest *xxhash.Digest, v reflect.Value, seen map[uintptr]struct{}) error {
	if v.Kind() == reflect.Slice {
		if v.IsNil() {
			_, _ = digest.Write([]byte{'z', 0})
			return nil
		}
		ptr := v.Pointer()
		if _, ok := seen[ptr]; ok {
			return zerr.With(domain.ErrUnhashableInput, "reason", "cyclic structure")
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)
	}

	_, _ = digest.Write([]byte{'a'})
	_, _ = digest.WriteString(strconv.Itoa(v.Len()))
	_, _ = digest.Write([]byte{0})
	for i := 0; i < v.Len(); i++ {
		if err := writeValue(digest, v.Index(i), seen); err != nil {
			return err
		}
	}
	_, _ = digest.Write([]byte{0})
	return nil
}

func writeMap(digest *xxhash.Digest, v reflect.Value, seen map[uintptr]struct{}) error {
	if v.IsNil() {
		_, _ = digest.Write([]byte{'z', 0})
		return nil
	}
	if v.Type().Key().Kind() != reflect.String {
		return zerr.With(domain.ErrUnhashableInput, "reason", "map key is not a string")
	}

	ptr := v.Pointer()
	if _, ok := seen[ptr]; ok {
		return zerr.With(domain.ErrUnhashableInput, "reason", "cyclic structure")
	}
	seen[ptr] = struct{}{}
	defer delete(seen, ptr)

	keys := make([]string, 0, v.Len())
	byKey := make(map[string]reflect.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		keys = append(keys, k)
		byKey[k] = iter.Value()
	}
	sort.Strings(keys)

	_, _ = digest.Write([]byte{'m'})
	_, _ = digest.WriteString(strconv.Itoa(len(keys)))
	_, _ = digest.Write([]byte{0})
	for _, k := range keys {
		_, _ = digest.WriteString(k)
		_, _ = digest.Write([]byte{0})
		if err := writeValue(digest, byKey[k], seen); err != nil {
			return err
		}
	}
	_, _ = digest.Write([]byte{0})
	return nil
}

func writeStruct(digest *xxhash.Digest, v reflect.Value, seen map[uintptr]struct{}) error {
	// time.Time has no exported fields; encode the instant itself.
	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		_, _ = digest.Write([]byte{'T'})
		_, _ = digest.WriteString(strconv.FormatInt(t.UnixNano(), 10))
		_, _ = digest.Write([]byte{0})
		return nil
	}

	_, _ = digest.Write([]byte{'t'})
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		_, _ = digest.WriteString(field.Name)
		_, _ = digest.Write([]byte{0})
		if err := writeValue(digest, v.Field(i), seen); err != nil {
			return err
		}
	}
	_, _ = digest.Write([]byte{0})
	return nil
}
