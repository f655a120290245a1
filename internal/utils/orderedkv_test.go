package utils

import (
	"encoding/json"
	"testing"
)

func TestOrderedKVMapMarshalKeepsOrder(t *testing.T) {
	om := NewOrderedKVMap[int]("reported", "in-progress", "resolved", "closed")
	om.Set("resolved", 3)
	om.Set("reported", 1)

	raw, err := json.Marshal(om)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"reported":1,"in-progress":0,"resolved":3,"closed":0}`
	if string(raw) != want {
		t.Fatalf("expected %s got %s", want, raw)
	}
}

func TestOrderedKVMapUnmarshal(t *testing.T) {
	var om OrderedKVMap[int]
	if err := json.Unmarshal([]byte(`{"z":1,"a":2,"m":3}`), &om); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	keys := om.Keys()
	if len(keys) != 3 || keys[0] != "z" || keys[1] != "a" || keys[2] != "m" {
		t.Fatalf("unexpected key order %v", keys)
	}
	if v, _ := om.Get("a"); v != 2 {
		t.Fatalf("expected 2 got %d", v)
	}
}
