package service

import (
	"math"
	"reflect"
	"testing"

	"thermostat/internal/models"
)

func TestCoerce(t *testing.T) {
	cases := []struct {
		name    string
		in      models.Value
		to      models.EntType
		want    models.Value
		wantErr bool
	}{
		{name: "same type", in: models.IntValue(3), to: models.EntInt, want: models.IntValue(3)},
		{name: "int to string", in: models.IntValue(3), to: models.EntString, want: models.StringValue("3")},
		{name: "bool to string", in: models.BoolValue(false), to: models.EntString, want: models.StringValue("False")},
		{name: "int to float", in: models.IntValue(3), to: models.EntFloat, want: models.FloatValue(3)},
		{name: "numeric text to float", in: models.StringValue(" 19.5 "), to: models.EntFloat, want: models.FloatValue(19.5)},
		{name: "text to float", in: models.StringValue("warm"), to: models.EntFloat, wantErr: true},
		{name: "bool to float", in: models.BoolValue(true), to: models.EntFloat, wantErr: true},
		{name: "integral float to int", in: models.FloatValue(8), to: models.EntInt, want: models.IntValue(8)},
		{name: "fractional float to int", in: models.FloatValue(8.5), to: models.EntInt, wantErr: true},
		{name: "float beyond int64 to int", in: models.FloatValue(1e19), to: models.EntInt, wantErr: true},
		{name: "float at 2^63 to int", in: models.FloatValue(float64(math.MaxInt64)), to: models.EntInt, wantErr: true},
		{name: "float below int64 to int", in: models.FloatValue(-1e19), to: models.EntInt, wantErr: true},
		{name: "min int64 float to int", in: models.FloatValue(math.MinInt64), to: models.EntInt, want: models.IntValue(math.MinInt64)},
		{name: "NaN text to float", in: models.StringValue("NaN"), to: models.EntFloat, wantErr: true},
		{name: "text to int", in: models.StringValue("12"), to: models.EntInt, want: models.IntValue(12)},
		{name: "bool to int", in: models.BoolValue(true), to: models.EntInt, wantErr: true},
		{name: "text to boolean", in: models.StringValue("True"), to: models.EntBoolean, want: models.BoolValue(true)},
		{name: "json bool to boolean", in: models.JSONValue(false), to: models.EntBoolean, want: models.BoolValue(false)},
		{name: "int to boolean", in: models.IntValue(1), to: models.EntBoolean, wantErr: true},
		{name: "float to json", in: models.FloatValue(1.5), to: models.EntJSON, want: models.JSONValue(1.5)},
		{name: "empty tag reads as string", in: models.Value{Str: "x"}, to: models.EntString, want: models.StringValue("x")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coerce(tc.in, tc.to)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerce: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
