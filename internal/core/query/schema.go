package query

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Field is a resolved, immutable accessor for one dotted field path.
type Field struct {
	Path string
	Kind Kind

	steps []fieldStep
}

type fieldStep struct {
	index []int
	ptr   bool // the field is a pointer; nil means the value is absent
}

// valueOf returns the canonical value at the field path, or ok=false when any
// pointer along the path is nil.
func (f *Field) valueOf(rec reflect.Value) (v any, ok bool) {
	if !rec.IsValid() {
		return nil, false
	}
	cur := rec
	for _, st := range f.steps {
		next, err := cur.FieldByIndexErr(st.index)
		if err != nil {
			return nil, false
		}
		if st.ptr {
			if next.IsNil() {
				return nil, false
			}
			next = next.Elem()
		}
		cur = next
	}
	return canonical(f.Kind, cur), true
}

// Schema resolves field paths against one record type and caches the results.
type Schema struct {
	typ     reflect.Type
	pointer bool // records are pointers to typ

	mu           sync.RWMutex
	fields       map[string]*Field
	resolveGroup singleflight.Group // Dedupe concurrent resolution of one path
}

var schemas sync.Map // reflect.Type -> *Schema

// SchemaOf returns the shared schema for record type t.
// Records must be structs or pointers to structs.
func SchemaOf(t reflect.Type) (*Schema, error) {
	if cached, ok := schemas.Load(t); ok {
		return cached.(*Schema), nil
	}
	base, pointer := t, false
	if base.Kind() == reflect.Pointer {
		base, pointer = base.Elem(), true
	}
	if base.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: record type %s is not a struct", ErrConfiguration, t)
	}
	s := &Schema{
		typ:     base,
		pointer: pointer,
		fields:  make(map[string]*Field),
	}
	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

// Type returns the struct type records are resolved against.
func (s *Schema) Type() reflect.Type {
	return s.typ
}

// record returns the struct value of rec, or the zero Value for a nil pointer.
func (s *Schema) record(rec any) reflect.Value {
	rv := reflect.ValueOf(rec)
	if s.pointer {
		if !rv.IsValid() || rv.IsNil() {
			return reflect.Value{}
		}
		return rv.Elem()
	}
	return rv
}

// Resolve returns the accessor for a dotted path such as "Company.Name".
func (s *Schema) Resolve(path string) (*Field, error) {
	s.mu.RLock()
	if f, ok := s.fields[path]; ok {
		s.mu.RUnlock()
		return f, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.resolveGroup.Do(path, func() (interface{}, error) {
		s.mu.RLock()
		if f, ok := s.fields[path]; ok {
			s.mu.RUnlock()
			return f, nil
		}
		s.mu.RUnlock()

		f, err := s.resolve(path)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.fields[path] = f
		s.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Field), nil
}

func (s *Schema) resolve(path string) (*Field, error) {
	if strings.TrimSpace(path) == "" {
		return nil, configErrorf(path, "field path is empty")
	}
	segments := strings.Split(path, ".")

	cur := s.typ
	steps := make([]fieldStep, 0, len(segments))
	for i, seg := range segments {
		sf, ok := lookupField(cur, seg)
		if !ok {
			return nil, configErrorf(path, "%s has no field %q", cur, seg)
		}

		ft, ptr := sf.Type, false
		if ft.Kind() == reflect.Pointer {
			ft, ptr = ft.Elem(), true
		}
		steps = append(steps, fieldStep{index: sf.Index, ptr: ptr})

		last := i == len(segments)-1
		if k := kindOf(ft); k != KindInvalid {
			if !last {
				return nil, configErrorf(path, "%q is a %s and has no fields", seg, k)
			}
			return &Field{Path: path, Kind: k, steps: steps}, nil
		}

		switch ft.Kind() {
		case reflect.Struct:
			if last {
				return nil, configErrorf(path, "%q is an association, not a scalar", seg)
			}
			cur = ft
		case reflect.Slice, reflect.Array, reflect.Map:
			return nil, configErrorf(path, "%q is a collection", seg)
		default:
			return nil, configErrorf(path, "%q has unsupported type %s", seg, sf.Type)
		}
	}
	return nil, configErrorf(path, "unresolved")
}

// lookupField matches a segment by Go field name, then json tag, then
// case-insensitively. Unexported fields never match.
func lookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
		return sf, true
	}
	fields := reflect.VisibleFields(t)
	for _, sf := range fields {
		if sf.IsExported() && jsonName(sf) == name {
			return sf, true
		}
	}
	for _, sf := range fields {
		if sf.IsExported() && !sf.Anonymous && strings.EqualFold(sf.Name, name) {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// FirstSortableField returns the first exported scalar field of the record
// type in declaration order. Associations are skipped.
func (s *Schema) FirstSortableField() (string, bool) {
	for _, sf := range reflect.VisibleFields(s.typ) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		ft := sf.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if kindOf(ft) != KindInvalid {
			return sf.Name, true
		}
	}
	return "", false
}
