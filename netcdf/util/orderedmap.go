package util

import (
	"errors"
)

// OrderedMap is an insertion-ordered map used for attribute lists. Keys can
// be hidden from listings without removing them; hidden keys stay reachable
// through Get.
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
	hidden map[string]bool
}

var (
	ErrorKeysDontMatchValues = errors.New("keys don't match values")
)

// NewOrderedMap builds a map whose listing order is the order of keys.
// Every key must have a value and vice versa.
func NewOrderedMap(keys []string, values map[string]interface{}) (*OrderedMap, error) {
	if len(keys) != len(values) {
		return nil, ErrorKeysDontMatchValues
	}
	for _, k := range keys {
		if _, has := values[k]; !has {
			return nil, ErrorKeysDontMatchValues
		}
	}
	if values == nil {
		values = map[string]interface{}{}
	}
	om := &OrderedMap{
		values: values,
		hidden: map[string]bool{},
	}
	om.keys = append(om.keys, keys...)
	return om, nil
}

// Add sets the value for name, keeping the listing position of a name that
// is already present.
func (om *OrderedMap) Add(name string, val interface{}) {
	if _, has := om.values[name]; !has {
		om.keys = append(om.keys, name)
	}
	om.values[name] = val
}

func (om *OrderedMap) Get(key string) (val interface{}, has bool) {
	val, has = om.values[key]
	return
}

// Hide removes a key from listings. Get still finds it.
func (om *OrderedMap) Hide(hiddenKey string) {
	om.hidden[hiddenKey] = true
}

// Keys returns the visible keys in insertion order.
func (om *OrderedMap) Keys() []string {
	visible := make([]string, 0, len(om.keys))
	for _, key := range om.keys {
		if om.hidden[key] {
			continue
		}
		visible = append(visible, key)
	}
	return visible
}

// GetType returns the CDL type name of the named value.
func (om *OrderedMap) GetType(key string) (string, bool) {
	val, has := om.values[key]
	if !has {
		return "", false
	}
	switch val.(type) {
	case int8, []int8:
		return "byte", true
	case string:
		return "char", true
	case int16, []int16:
		return "short", true
	case int32, []int32:
		return "int", true
	case float32, []float32:
		return "float", true
	case float64, []float64:
		return "double", true
	}
	return "", false
}

// GetGoType returns the Go base type name of the named value.
func (om *OrderedMap) GetGoType(key string) (string, bool) {
	val, has := om.values[key]
	if !has {
		return "", false
	}
	switch val.(type) {
	case int8, []int8:
		return "int8", true
	case string:
		return "string", true
	case int16, []int16:
		return "int16", true
	case int32, []int32:
		return "int32", true
	case float32, []float32:
		return "float32", true
	case float64, []float64:
		return "float64", true
	}
	return "", false
}
