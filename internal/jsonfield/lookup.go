package jsonfield

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO 8601 calendar date layout used by the API.
const DateLayout = "2006-01-02"

func LookupString(o Object, key string) (string, bool) {
	v, ok := o.Lookup(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)

	return s, ok
}

func LookupBool(o Object, key string) (bool, bool) {
	v, ok := o.Lookup(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)

	return b, ok
}

func LookupFloat(o Object, key string) (float64, bool) {
	v, ok := o.Lookup(key)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}

		return f, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// LookupInt returns integral numbers as is and truncates fractional ones.
// Numbers outside the int range are reported as absent.
func LookupInt(o Object, key string) (int, bool) {
	v, ok := o.Lookup(key)
	if !ok {
		return 0, false
	}

	if n, isNumber := v.(json.Number); isNumber {
		if i, err := strconv.ParseInt(n.String(), 10, strconv.IntSize); err == nil {
			return int(i), true
		}
	}
	if i, isInt := v.(int); isInt {
		return i, true
	}

	f, ok := LookupFloat(o, key)
	if !ok || math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}

	return int(f), true
}

// LookupDecimal accepts numbers and numeric strings, prices are sent as strings.
func LookupDecimal(o Object, key string) (decimal.Decimal, bool) {
	v, ok := o.Lookup(key)
	if !ok {
		return decimal.Zero, false
	}

	var raw string
	switch n := v.(type) {
	case json.Number:
		raw = n.String()
	case string:
		raw = strings.TrimSpace(n)
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	default:
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

func LookupDate(o Object, key string) (time.Time, bool) {
	s, ok := LookupString(o, key)
	if !ok {
		return time.Time{}, false
	}

	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}

	return d, true
}

func LookupObject(o Object, key string) (Object, bool) {
	v, ok := o.Lookup(key)
	if !ok {
		return nil, false
	}

	return toObject(v)
}

func LookupArray(o Object, key string) ([]any, bool) {
	v, ok := o.Lookup(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)

	return arr, ok
}
