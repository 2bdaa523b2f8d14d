package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"thermostat/internal/models"
)

var (
	errNotIntegral  = errors.New("value is not integral")
	errIncompatible = errors.New("incompatible types")
)

// coerce converts v to the target type of an existing record.
func coerce(v models.Value, to models.EntType) (models.Value, error) {
	from := v.Type.Normalize()
	to = to.Normalize()
	if from == to {
		v.Type = to
		return v, nil
	}

	switch to {
	case models.EntString:
		text, err := models.Encode(v)
		if err != nil {
			return models.Value{}, err
		}
		return models.StringValue(text), nil

	case models.EntJSON:
		return models.JSONValue(v.Interface()), nil

	case models.EntFloat:
		if from == models.EntBoolean {
			return models.Value{}, errIncompatible
		}
		f, err := v.Float64()
		if err != nil {
			return models.Value{}, err
		}
		return models.FloatValue(f), nil

	case models.EntInt:
		switch from {
		case models.EntString:
			i, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
			if err != nil {
				return models.Value{}, fmt.Errorf("parse int: %w", err)
			}
			return models.IntValue(i), nil
		case models.EntFloat, models.EntJSON:
			f, err := v.Float64()
			if err != nil {
				return models.Value{}, err
			}
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return models.Value{}, errNotIntegral
			}
			return models.IntValue(int64(f)), nil
		}
		return models.Value{}, errIncompatible

	case models.EntBoolean:
		switch from {
		case models.EntString:
			return models.ParseValue(models.EntBoolean, v.Str)
		case models.EntJSON:
			if b, ok := v.JSON.(bool); ok {
				return models.BoolValue(b), nil
			}
		}
		return models.Value{}, errIncompatible
	}
	return models.Value{}, errIncompatible
}
