package battle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// ErrInvalidUTF8 rejects a chunk before JSON decoding.
var ErrInvalidUTF8 = errors.New("battle: payload is not valid UTF-8")

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// ValidationError reports a required-field violation in one document.
type ValidationError struct {
	Document string
	Path     string
	Reason   string
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema: %s: %s", e.Document, e.Reason)
	}
	return fmt.Sprintf("schema: %s: field %s: %s", e.Document, e.Path, e.Reason)
}

// decodeDocument decodes raw into v and then enforces required fields
// against v's type. encoding/json alone tolerates missing keys.
func decodeDocument(doc string, raw []byte, v any) error {
	if !utf8.Valid(raw) {
		return ErrInvalidUTF8
	}
	t := reflect.TypeOf(v).Elem()
	if clean, changed := exactKeys(raw, t); changed {
		log.Debug().Str("document", doc).Msg("battle: dropped case-folded keys")
		raw = clean
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Debug().Str("document", doc).Err(err).Msg("battle: json decode failed")
		return err
	}
	if err := requireFields(doc, raw, t); err != nil {
		log.Debug().Str("document", doc).Err(err).Msg("battle: schema validation failed")
		return err
	}
	return nil
}

// requireFields walks raw alongside t. A struct field is optional only when
// tagged omitempty; opaque values and custom codecs judge their own input.
func requireFields(doc string, raw json.RawMessage, t reflect.Type) error {
	return walk(doc, "", raw, t)
}

func walk(doc, path string, raw json.RawMessage, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		if isNull(raw) {
			return nil
		}
		t = t.Elem()
	}
	if customCodec(t) || !needsWalk(t) {
		return nil
	}
	if isNull(raw) {
		return ValidationError{Document: doc, Path: path, Reason: "null value"}
	}

	switch t.Kind() {
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ValidationError{Document: doc, Path: path, Reason: "expected object"}
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, optional, ok := jsonField(f)
			if !ok {
				continue
			}
			fieldPath := join(path, name)
			value, present := obj[name]
			if !present {
				if optional {
					continue
				}
				return ValidationError{Document: doc, Path: fieldPath, Reason: "missing required field"}
			}
			if isNull(value) {
				if optional || nullable(f.Type) {
					continue
				}
				return ValidationError{Document: doc, Path: fieldPath, Reason: "null value for required field"}
			}
			if err := walk(doc, fieldPath, value, f.Type); err != nil {
				return err
			}
		}
	case reflect.Map:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ValidationError{Document: doc, Path: path, Reason: "expected object"}
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := walk(doc, join(path, k), obj[k], t.Elem()); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ValidationError{Document: doc, Path: path, Reason: "expected array"}
		}
		if t.Kind() == reflect.Array && len(items) != t.Len() {
			return ValidationError{
				Document: doc,
				Path:     path,
				Reason:   fmt.Sprintf("expected %d elements, got %d", t.Len(), len(items)),
			}
		}
		for i, item := range items {
			if err := walk(doc, fmt.Sprintf("%s[%d]", path, i), item, t.Elem()); err != nil {
				return err
			}
		}
	}
	return nil
}

// exactKeys drops object keys that match a field only when case is folded.
// encoding/json would otherwise decode them into that field. Unknown keys
// are kept, and raw is returned as-is when nothing was dropped or it does
// not parse.
func exactKeys(raw json.RawMessage, t reflect.Type) (json.RawMessage, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if !needsWalk(t) || isNull(raw) {
		return raw, false
	}

	switch t.Kind() {
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) != nil {
			return raw, false
		}
		fields := make(map[string]reflect.Type, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if name, _, ok := jsonField(t.Field(i)); ok {
				fields[name] = t.Field(i).Type
			}
		}
		changed := false
		for key, value := range obj {
			if ft, ok := fields[key]; ok {
				if clean, c := exactKeys(value, ft); c {
					obj[key] = clean
					changed = true
				}
				continue
			}
			if foldsOnto(key, fields) {
				delete(obj, key)
				changed = true
			}
		}
		return remarshal(raw, obj, changed)
	case reflect.Map:
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) != nil {
			return raw, false
		}
		changed := false
		for key, value := range obj {
			if clean, c := exactKeys(value, t.Elem()); c {
				obj[key] = clean
				changed = true
			}
		}
		return remarshal(raw, obj, changed)
	case reflect.Slice, reflect.Array:
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			return raw, false
		}
		changed := false
		for i, item := range items {
			if clean, c := exactKeys(item, t.Elem()); c {
				items[i] = clean
				changed = true
			}
		}
		return remarshal(raw, items, changed)
	}
	return raw, false
}

func foldsOnto(key string, fields map[string]reflect.Type) bool {
	for name := range fields {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}

func remarshal(raw json.RawMessage, v any, changed bool) (json.RawMessage, bool) {
	if !changed {
		return raw, false
	}
	out, err := json.Marshal(v)
	if err != nil {
		return raw, false
	}
	return out, true
}

func jsonField(f reflect.StructField) (name string, optional bool, ok bool) {
	if !f.IsExported() {
		return "", false, false
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			optional = true
		}
	}
	return name, optional, true
}

func needsWalk(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if customCodec(t) {
		return false
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Array, reflect.Map, reflect.Slice:
		return true
	}
	return false
}

func nullable(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer || customCodec(t)
}

func customCodec(t reflect.Type) bool {
	return t.Implements(unmarshalerType) || reflect.PointerTo(t).Implements(unmarshalerType)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
