package jsonfield

import (
	"time"

	"github.com/shopspring/decimal"
)

// String returns the string value of key or "".
func String(o Object, key string) string {
	s, _ := LookupString(o, key)

	return s
}

// Bool returns the boolean value of key or false.
func Bool(o Object, key string) bool {
	b, _ := LookupBool(o, key)

	return b
}

// BoolFromString returns true if key holds exactly trueValue.
func BoolFromString(o Object, key string, trueValue string) bool {
	s, ok := LookupString(o, key)

	return ok && s == trueValue
}

func Float(o Object, key string) float64 {
	f, _ := LookupFloat(o, key)

	return f
}

func Int(o Object, key string) int {
	i, _ := LookupInt(o, key)

	return i
}

func Decimal(o Object, key string) decimal.Decimal {
	d, _ := LookupDecimal(o, key)

	return d
}

// Date returns the parsed date of key or the zero time.
func Date(o Object, key string) time.Time {
	d, _ := LookupDate(o, key)

	return d
}

// Strings returns all string elements of the array key. Elements of other types are skipped.
func Strings(o Object, key string) []string {
	arr, _ := LookupArray(o, key)

	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}

	return result
}

// Nested returns the nested object of key or an empty object.
func Nested(o Object, key string) Object {
	obj, ok := LookupObject(o, key)
	if !ok {
		return Object{}
	}

	return obj
}

// Objects returns all object elements of the array key. Elements of other types are skipped.
func Objects(o Object, key string) []Object {
	arr, _ := LookupArray(o, key)

	result := make([]Object, 0, len(arr))
	for _, v := range arr {
		if obj, ok := toObject(v); ok {
			result = append(result, obj)
		}
	}

	return result
}

// NestedString returns the string child of the nested object parent.
func NestedString(o Object, parent, child string) string {
	return String(Nested(o, parent), child)
}

// LargeImage returns the "large" image uri from the nested image object parent.
func LargeImage(o Object, parent string) string {
	return NestedString(o, parent, "large")
}

// StringMap returns all string values of the nested object key.
func StringMap(o Object, key string) map[string]string {
	nested := Nested(o, key)

	result := make(map[string]string, len(nested))
	for k, v := range nested {
		if s, ok := v.(string); ok {
			result[k] = s
		}
	}

	return result
}
