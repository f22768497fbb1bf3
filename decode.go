package strata

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Decode populates a generated partial struct from one source's raw nested
// map. A key present in the map marks the corresponding field set, even when
// the decoded value equals the type's zero value; keys absent from the map
// leave the field absent. Malformed values return an error and the partial
// must be discarded: the merge engine never sees sources that failed to
// decode.
func Decode(raw map[string]any, into any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     into,
		TagName:    "strata",
		DecodeHook: optionalDecodeHook(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// optionalSetter is implemented by *Optional[T] for every T. The decode hook
// detects Optional targets through it without knowing the concrete type.
type optionalSetter interface {
	setDecoded(raw any) error
}

var optionalSetterType = reflect.TypeOf((*optionalSetter)(nil)).Elem()

// optionalDecodeHook routes raw values into Optional fields, marking them
// set. Non-Optional targets pass through untouched.
func optionalDecodeHook() mapstructure.DecodeHookFuncValue {
	return func(from, to reflect.Value) (any, error) {
		if !reflect.PointerTo(to.Type()).Implements(optionalSetterType) {
			return from.Interface(), nil
		}
		ptr := reflect.New(to.Type())
		if err := ptr.Interface().(optionalSetter).setDecoded(from.Interface()); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
}

// decodeValue converts one raw value into a concrete Go value, tolerating
// the loose typing of file and env sources (quoted numbers, "true"/"false"
// strings, duration strings).
func decodeValue(raw, into any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           into,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
