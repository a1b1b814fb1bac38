package config

import (
	"errors"
	"fmt"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// ErrUnknownKey is returned by Lookup for keys that are not registered.
var ErrUnknownKey = errors.New("unknown key")

// Lookup returns the registered field for k, suggesting the closest key when there is none.
func Lookup(k string) (Field, error) {
	if field, ok := Default[k]; ok {
		return field, nil
	}

	closest := lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
	return Field{}, fmt.Errorf("%w %s, did you mean %s?", ErrUnknownKey, k, closest)
}

// Parse converts command-line words into a value of the field's type.
// Only list fields accept more than one word.
func (f *Field) Parse(words []string) (any, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: value is required", f.Key)
	}

	if _, ok := f.Value.([]string); ok {
		return words, nil
	}

	if len(words) > 1 {
		return nil, fmt.Errorf("%s takes a single %s value", f.Key, f.typeName())
	}

	raw := words[0]
	switch f.Value.(type) {
	case string:
		return raw, nil
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", f.Key, raw)
		}
		return v, nil
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", f.Key, raw)
		}
		return v, nil
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", f.Key, raw)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %s", f.Key, f.typeName())
	}
}

// Changed reports whether the active value differs from the default.
func (f *Field) Changed() bool {
	return fmt.Sprint(viper.Get(f.Key)) != fmt.Sprint(f.Value)
}

// Save writes the active configuration, creating the file on first use.
func Save() error {
	err := viper.WriteConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return viper.SafeWriteConfig()
	}
	return err
}
