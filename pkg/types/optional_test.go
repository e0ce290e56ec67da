package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestOptionalUnmarshal(t *testing.T) {
	type payload struct {
		Name  Optional[string]          `json:"name"`
		Price Optional[decimal.Decimal] `json:"price"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"name": "Icons", "price": 19.99}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.Name.HasValue() || got.Name.Value != "Icons" {
		t.Fatalf("expected name value, got %+v", got.Name)
	}
	if !got.Price.HasValue() || !got.Price.Value.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("expected price value, got %+v", got.Price)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"name": null}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.Name.Set || !got.Name.Null {
		t.Fatalf("expected explicit null, got %+v", got.Name)
	}
	if got.Name.Ptr() != nil {
		t.Fatalf("null optional should not produce a pointer")
	}
	if got.Price.Set {
		t.Fatalf("omitted field should stay unset, got %+v", got.Price)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"name": 12}`), &got); err == nil {
		t.Fatalf("expected type mismatch to fail")
	}
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3), B: Null[int]()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":3,"b":null}` {
		t.Fatalf("unexpected json %s", out)
	}
}
