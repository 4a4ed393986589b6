package warehouse

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// Normalize converts a warehouse-native value into a portable scalar for
// the response envelope. Rules apply in order and the first match wins:
// null, unbounded-precision numerics, date/time kinds, interval and range
// wrappers, bytes, composites as JSON text, plain scalars unchanged.
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case *big.Rat:
		// NUMERIC/BIGNUMERIC: nearest float64. Precision loss beyond the
		// safe range is a documented limitation.
		f, _ := t.Float64()
		return f
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case civil.Date:
		return t.String()
	case civil.Time:
		return t.String()
	case civil.DateTime:
		return t.String()
	case *bigquery.IntervalValue:
		return t.String()
	case *bigquery.RangeValue:
		return jsonText(map[string]any{
			"start": Normalize(t.Start),
			"end":   Normalize(t.End),
		})
	case []byte:
		return t
	case []bigquery.Value:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return jsonText(out)
	case map[string]bigquery.Value:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = Normalize(e)
		}
		return jsonText(m)
	case string, bool, int64, float64:
		return t
	default:
		return jsonText(t)
	}
}

func jsonText(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
