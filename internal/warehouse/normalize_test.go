package warehouse

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

func TestNormalizeNull(t *testing.T) {
	if got := Normalize(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestNormalizeNumeric(t *testing.T) {
	// Exactly representable value.
	if got := Normalize(big.NewRat(5, 2)); got != 2.5 {
		t.Errorf("expected 2.5, got %v", got)
	}

	// Beyond the safe integer range: nearest float64 wins, precision
	// loss is accepted.
	huge := new(big.Rat).SetInt(new(big.Int).Add(
		new(big.Int).Lsh(big.NewInt(1), 60),
		big.NewInt(1),
	))
	got, ok := Normalize(huge).(float64)
	if !ok {
		t.Fatalf("expected float64, got %T", Normalize(huge))
	}
	want, _ := huge.Float64()
	if got != want {
		t.Errorf("expected nearest float64 %v, got %v", want, got)
	}
}

func TestNormalizeDateTimeKinds(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	if got := Normalize(ts); got != "2024-03-15T10:30:00Z" {
		t.Errorf("expected RFC 3339 timestamp, got %v", got)
	}

	if got := Normalize(civil.Date{Year: 2024, Month: 3, Day: 15}); got != "2024-03-15" {
		t.Errorf("expected ISO date, got %v", got)
	}
	if got := Normalize(civil.Time{Hour: 10, Minute: 30}); got != "10:30:00" {
		t.Errorf("expected ISO time, got %v", got)
	}
	dt := civil.DateTime{
		Date: civil.Date{Year: 2024, Month: 3, Day: 15},
		Time: civil.Time{Hour: 10, Minute: 30},
	}
	if got := Normalize(dt); got != "2024-03-15T10:30:00" {
		t.Errorf("expected ISO datetime, got %v", got)
	}
}

func TestNormalizeScalarsPassThrough(t *testing.T) {
	cases := []any{"hello", true, int64(42), float64(1.5)}
	for _, c := range cases {
		if got := Normalize(c); got != c {
			t.Errorf("expected %v to pass through, got %v", c, got)
		}
	}
}

func TestNormalizeBytesPassThrough(t *testing.T) {
	got, ok := Normalize([]byte("raw")).([]byte)
	if !ok || string(got) != "raw" {
		t.Errorf("expected bytes to pass through, got %v", got)
	}
}

func TestNormalizeCompositesBecomeJSONText(t *testing.T) {
	arr := []bigquery.Value{int64(1), "a", nil}
	if got := Normalize(arr); got != `[1,"a",null]` {
		t.Errorf("expected JSON text for repeated value, got %v", got)
	}

	rec := map[string]bigquery.Value{"n": int64(7)}
	if got := Normalize(rec); got != `{"n":7}` {
		t.Errorf("expected JSON text for record value, got %v", got)
	}

	// Inner date values render canonically before serialization.
	nested := []bigquery.Value{civil.Date{Year: 2024, Month: 1, Day: 2}}
	if got := Normalize(nested); got != `["2024-01-02"]` {
		t.Errorf("expected inner date normalized, got %v", got)
	}
}

func TestNormalizeRangeEndpoints(t *testing.T) {
	rv := &bigquery.RangeValue{
		Start: civil.Date{Year: 2024, Month: 1, Day: 1},
		End:   civil.Date{Year: 2024, Month: 2, Day: 1},
	}
	got, ok := Normalize(rv).(string)
	if !ok {
		t.Fatalf("expected JSON text, got %T", Normalize(rv))
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("unmarshal %q: %v", got, err)
	}
	if parsed["start"] != "2024-01-01" || parsed["end"] != "2024-02-01" {
		t.Errorf("expected canonical endpoint dates, got %q", got)
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	// Plain scalars, nulls, and ISO dates survive a serialize/parse
	// cycle unchanged.
	cases := []any{
		nil,
		"text",
		true,
		float64(2.25),
		Normalize(civil.Date{Year: 2024, Month: 3, Day: 15}),
		Normalize(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)),
	}
	for _, c := range cases {
		b, err := json.Marshal(Normalize(c))
		if err != nil {
			t.Fatalf("marshal %v: %v", c, err)
		}
		var back any
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		switch want := c.(type) {
		case nil:
			if back != nil {
				t.Errorf("expected nil round-trip, got %v", back)
			}
		case float64:
			if back != want {
				t.Errorf("expected %v round-trip, got %v", want, back)
			}
		default:
			if back != c {
				t.Errorf("expected %v round-trip, got %v", c, back)
			}
		}
	}
}
