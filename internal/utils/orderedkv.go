package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

type OrderedKV[T any] struct {
	Value T
	Order int64
}

// OrderedKVMap is a JSON object whose keys are emitted in insertion order.
type OrderedKVMap[T any] map[string]OrderedKV[T]

// NewOrderedKVMap presets keys with zero values so that they keep their position
// even when never set.
func NewOrderedKVMap[T any](keys ...string) OrderedKVMap[T] {
	om := make(OrderedKVMap[T], len(keys))
	for _, k := range keys {
		var zero T
		om.Set(k, zero)
	}
	return om
}

// Set stores a value. New keys are appended after the existing ones.
func (om OrderedKVMap[T]) Set(key string, value T) {
	if kv, ok := om[key]; ok {
		kv.Value = value
		om[key] = kv
		return
	}
	om[key] = OrderedKV[T]{Value: value, Order: int64(len(om))}
}

func (om OrderedKVMap[T]) Get(key string) (T, bool) {
	kv, ok := om[key]
	return kv.Value, ok
}

// Keys returns the keys in order.
func (om OrderedKVMap[T]) Keys() []string {
	keys := make([]string, 0, len(om))
	for k := range om {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return om[keys[i]].Order < om[keys[j]].Order
	})
	return keys
}

func (om OrderedKVMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range om.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valueBytes, err := json.Marshal(om[k].Value)
		if err != nil {
			return nil, err
		}
		buf.Write(valueBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (om *OrderedKVMap[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ordered map: expected object, got %v", tok)
	}

	result := OrderedKVMap[T]{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ordered map: expected key, got %v", tok)
		}
		var value T
		if err := dec.Decode(&value); err != nil {
			return err
		}
		result.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*om = result
	return nil
}
