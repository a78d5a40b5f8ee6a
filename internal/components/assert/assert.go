// Package assert panics on broken constructor preconditions, these are programmer errors
// and never the result of user input.
package assert

import (
	"fmt"
	"reflect"
	"time"
)

func NotNil(value any, name string) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			panic(fmt.Sprintf("expected %s to be not nil", name))
		}
	}
}

func NotEmptyStr(str string, name string) {
	if str == "" {
		panic(fmt.Sprintf("expected %s to be non-empty", name))
	}
}

func PositiveDuration(d time.Duration, name string) {
	if d <= 0 {
		panic(fmt.Sprintf("expected %s to be positive, got %s", name, d))
	}
}
