package record

import (
	"reflect"

	"github.com/roach88/kwargs/internal/key"
	"github.com/roach88/kwargs/internal/value"
)

// Item is the result of a lookup: a present entry or nothing.
type Item struct {
	entry *Entry
}

// HasValue reports whether the lookup matched.
func (it Item) HasValue() bool { return it.entry != nil }

// Slot returns the matched Slot, or nil.
func (it Item) Slot() *value.Slot {
	if it.entry == nil {
		return nil
	}
	return &it.entry.Slot
}

// Key returns the matched key, or 0.
func (it Item) Key() key.Key {
	if it.entry == nil {
		return 0
	}
	return it.entry.Key
}

// Name returns the matched entry's name, if it has one.
func (it Item) Name() string {
	if it.entry == nil {
		return ""
	}
	return it.entry.Name
}

// ValueOr converts the matched value to T. When the lookup missed, T is
// built from defaults: none gives the zero value, one is used as-is or
// converted, and several are converted as a list, or field by field when T
// is a struct with that many fields. It panics with a *kwerr.ConversionError
// when a conversion fails.
func ValueOr[T any](it Item, defaults ...any) T {
	v, err := TryValueOr[T](it, defaults...)
	if err != nil {
		panic(err)
	}
	return v
}

// TryValueOr is ValueOr returning the conversion error.
func TryValueOr[T any](it Item, defaults ...any) (T, error) {
	var zero T
	v, err := it.ConvertOr(reflect.TypeFor[T](), defaults...)
	if err != nil || !v.IsValid() {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}

// ConvertOr is TryValueOr for a target type known only at run time.
func (it Item) ConvertOr(t reflect.Type, defaults ...any) (reflect.Value, error) {
	if it.HasValue() {
		return it.Slot().ConvertTo(t)
	}

	switch len(defaults) {
	case 0:
		return reflect.Zero(t), nil
	case 1:
		if d := reflect.ValueOf(defaults[0]); d.IsValid() && d.Type().AssignableTo(t) {
			out := reflect.New(t).Elem()
			out.Set(d)
			return out, nil
		}
		return value.New(defaults[0]).ConvertTo(t)
	}

	if t.Kind() == reflect.Struct && t.NumField() == len(defaults) {
		return fromFields(t, defaults)
	}
	return value.New(defaults).ConvertTo(t)
}

func fromFields(t reflect.Type, defaults []any) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	for i, d := range defaults {
		f := out.Field(i)
		if !f.CanSet() {
			return value.New(defaults).ConvertTo(t)
		}
		v, err := value.New(d).ConvertTo(f.Type())
		if err != nil {
			return reflect.Value{}, err
		}
		f.Set(v)
	}
	return out, nil
}
