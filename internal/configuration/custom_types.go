package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ReferenceHookFunc returns a mapstructure decode hook that allows the short forms
//
//	reference: 42      (fixed value)
//	reference: outer   (output of the loop with id "outer")
//
// in addition to the full `reference: {value: 42}` / `reference: {loop: outer}` form.
func ReferenceHookFunc() mapstructure.DecodeHookFuncType {
	referenceType := reflect.TypeOf(ReferenceConfig{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != referenceType {
			return data, nil
		}

		switch v := data.(type) {
		case int:
			return fixedReference(float64(v)), nil
		case int64:
			return fixedReference(float64(v)), nil
		case uint64:
			return fixedReference(float64(v)), nil
		case float32:
			return fixedReference(float64(v)), nil
		case float64:
			return fixedReference(v), nil
		case string:
			s := strings.TrimSpace(v)
			if len(s) <= 0 {
				return nil, fmt.Errorf("empty reference")
			}
			if value, err := strconv.ParseFloat(s, 64); err == nil {
				return fixedReference(value), nil
			}
			return map[string]interface{}{"loop": s}, nil
		}

		return data, nil
	}
}

func fixedReference(value float64) map[string]interface{} {
	return map[string]interface{}{"value": value}
}
