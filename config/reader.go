package config

import (
	"encoding/json"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// AttributeMap is a loosely typed configuration, as read from JSON or handed over by a caller.
type AttributeMap map[string]interface{}

// FromAttributes overlays attrs onto the defaults and validates the result. Durations may be given
// as strings ("5ms") or as numbers of seconds (0.005).
func FromAttributes(attrs AttributeMap) (*Config, error) {
	conf := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           conf,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			float64ToDurationHook,
		),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attrs)); err != nil {
		return nil, errors.Wrap(err, "cannot decode config attributes")
	}
	if err := conf.Validate("config"); err != nil {
		return nil, err
	}
	return conf, nil
}

// FromReader reads a JSON config.
func FromReader(r io.Reader) (*Config, error) {
	var attrs AttributeMap
	if err := json.NewDecoder(r).Decode(&attrs); err != nil {
		return nil, errors.Wrap(err, "cannot parse config json")
	}
	return FromAttributes(attrs)
}

// Read reads a JSON config from the given path. An empty path returns the validated defaults.
func Read(path string) (*Config, error) {
	if path == "" {
		conf := Default()
		return conf, conf.Validate("config")
	}
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open config %q", path)
	}
	defer func() {
		_ = f.Close()
	}()
	return FromReader(f)
}

// json numbers decode as float64; treat them as seconds when the target is a duration.
func float64ToDurationHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.Float64 || to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	//nolint:forcetypeassert
	return time.Duration(data.(float64) * float64(time.Second)), nil
}
