package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const tagKey = "ft"

// NoIndexDefaulter is implemented by types whose properties default to NOINDEX.
type NoIndexDefaulter interface {
	FTNoIndexDefault() bool
}

var (
	timeType             = reflect.TypeFor[time.Time]()
	noIndexDefaulterType = reflect.TypeFor[NoIndexDefaulter]()
)

// DescribeFor builds a TypeSpec for T from its struct tags.
func DescribeFor[T any]() (*TypeSpec, error) {
	return Describe(reflect.TypeFor[T]())
}

// Describe builds a TypeSpec for a struct type from its `ft` and `json` tags.
//
// Property names follow the json tag so paths match the stored document.
// The `ft` tag accepts a comma-separated list of: "-", tag, sortable, index,
// noindex, alias=<a>, separator=<s>, phonetic=<matcher>, weight=<w>.
// Recursive types yield a cyclic TypeSpec graph; Infer handles the cycles.
func Describe(t reflect.Type) (*TypeSpec, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: type %s is not a struct", t)
	}
	d := describer{seen: make(map[reflect.Type]*TypeSpec)}
	return d.describe(t)
}

type describer struct {
	seen map[reflect.Type]*TypeSpec
}

func (d *describer) describe(t reflect.Type) (*TypeSpec, error) {
	if spec, ok := d.seen[t]; ok {
		return spec, nil
	}

	spec := &TypeSpec{Name: typeName(t)}
	d.seen[t] = spec

	if reflect.PointerTo(t).Implements(noIndexDefaulterType) {
		if nd, ok := reflect.New(t).Interface().(NoIndexDefaulter); ok {
			spec.NoIndexDefault = nd.FTNoIndexDefault()
		}
	}

	for i := range t.NumField() {
		sf := t.Field(i)
		if promoted, ok, err := d.embedded(sf); ok {
			if err != nil {
				return nil, fmt.Errorf("schema: %s.%s: %w", t.Name(), sf.Name, err)
			}
			spec.Properties = append(spec.Properties, promoted...)
			continue
		}
		if !sf.IsExported() && !(sf.Anonymous && deref(sf.Type).Kind() == reflect.Struct) {
			continue
		}
		prop, err := d.property(sf)
		if err != nil {
			return nil, fmt.Errorf("schema: %s.%s: %w", t.Name(), sf.Name, err)
		}
		spec.Properties = append(spec.Properties, prop)
	}
	return spec, nil
}

// embedded returns the promoted properties of an untagged embedded struct,
// which encoding/json flattens into the parent object.
func (d *describer) embedded(sf reflect.StructField) ([]Property, bool, error) {
	if !sf.Anonymous {
		return nil, false, nil
	}
	if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name != "" {
		return nil, false, nil
	}
	et := deref(sf.Type)
	if et.Kind() != reflect.Struct || et == timeType {
		return nil, false, nil
	}
	if sf.Tag.Get(tagKey) == "-" {
		return nil, true, nil
	}
	elem, err := d.describe(et)
	if err != nil {
		return nil, true, err
	}
	return elem.Properties, true, nil
}

func (d *describer) property(sf reflect.StructField) (Property, error) {
	prop := Property{Name: jsonName(sf)}
	if prop.Name == "-" {
		prop.Ignore = true
		return prop, nil
	}

	if err := applyTag(&prop, sf.Tag.Get(tagKey)); err != nil {
		return Property{}, err
	}
	if prop.Ignore {
		return prop, nil
	}

	ft := deref(sf.Type)
	switch {
	case ft == timeType:
		prop.Type = PropTime
	case ft.Kind() == reflect.Struct:
		elem, err := d.describe(ft)
		if err != nil {
			return Property{}, err
		}
		prop.Type = PropCompound
		prop.Elem = elem
	case (ft.Kind() == reflect.Slice || ft.Kind() == reflect.Array) && ft.Elem().Kind() != reflect.Uint8:
		prop.Type = PropCollection
		et := deref(ft.Elem())
		if et.Kind() == reflect.Struct && et != timeType {
			elem, err := d.describe(et)
			if err != nil {
				return Property{}, err
			}
			prop.Elem = elem
		} else {
			prop.ElemType = primitive(et)
		}
	default:
		prop.Type = primitive(ft)
	}
	return prop, nil
}

func applyTag(prop *Property, tag string) error {
	if tag == "" {
		return nil
	}
	for _, opt := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "":
		case "-":
			prop.Ignore = true
		case "tag":
			prop.ForceTag = true
		case "sortable":
			prop.Sortable = true
		case "index":
			on := true
			prop.Index = &on
		case "noindex":
			off := false
			prop.Index = &off
		case "alias":
			prop.Alias = val
		case "separator":
			prop.Separator = val
		case "phonetic":
			p := ParsePhonetic(val)
			if p == PhoneticNone {
				return fmt.Errorf("unknown phonetic matcher %q", val)
			}
			prop.Phonetic = p
		case "weight":
			w, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q: %w", val, err)
			}
			prop.Weight = w
		default:
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

func primitive(t reflect.Type) PropType {
	if t == timeType {
		return PropTime
	}
	switch t.Kind() {
	case reflect.Bool:
		return PropBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return PropNumber
	case reflect.String, reflect.Slice, reflect.Array:
		return PropString
	default:
		return PropObject
	}
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func jsonName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" {
		return sf.Name
	}
	return name
}

func typeName(t reflect.Type) string {
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
