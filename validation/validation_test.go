package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/poolfetch/errors"
)

type sampleConfig struct {
	MaxConnections int           `mapstructure:"max_connections" validate:"gt=0"`
	Pipelining     int           `mapstructure:"pipelining" validate:"gte=1"`
	KeepAlive      time.Duration `mapstructure:"keep_alive_timeout" validate:"gt=0"`
	KeepAliveMax   time.Duration `mapstructure:"keep_alive_max_timeout" validate:"gtefield=KeepAlive"`
	Mode           string        `validate:"omitempty,oneof=a b"`
}

func TestValidateStruct(t *testing.T) {
	valid := sampleConfig{MaxConnections: 5, Pipelining: 6, KeepAlive: time.Minute, KeepAliveMax: 10 * time.Minute}
	if err := Validate(valid); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}

	invalid := sampleConfig{MaxConnections: 0, Pipelining: 0, KeepAlive: time.Minute, KeepAliveMax: time.Second, Mode: "c"}
	err := Validate(invalid)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}

	msg := err.Error()
	for _, want := range []string{
		"max_connections: must be greater than 0",
		"pipelining: must be at least 1",
		"keep_alive_max_timeout: must not be less than keep_alive",
		"mode: must be one of: a b",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}

	appErr, _ := errors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 4 {
		t.Errorf("expected 4 field errors in details, got %#v", appErr.Details["fields"])
	}
}

func TestValidatorChain(t *testing.T) {
	v := New().
		OneOf("default_method", "GET", []string{"GET", "POST"}).
		PositiveDuration("shutdown_timeout", time.Second).
		Custom(true, "x", "never")
	if v.HasErrors() {
		t.Fatalf("expected no errors, got %v", v.Errors())
	}
	if v.Err() != nil {
		t.Error("Err() must be nil without errors")
	}
}

func TestValidatorCollectsErrors(t *testing.T) {
	tests := []struct {
		name  string
		apply func(v *Validator)
		field string
	}{
		{"oneof", func(v *Validator) { v.OneOf("method", "BREW", []string{"GET"}) }, "method"},
		{"duration", func(v *Validator) { v.PositiveDuration("timeout", 0) }, "timeout"},
		{"custom", func(v *Validator) { v.Custom(false, "c", "failed") }, "c"},
		{"add", func(v *Validator) { v.AddError("a", "bad") }, "a"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			tc.apply(v)
			if len(v.Errors()) != 1 {
				t.Fatalf("expected 1 error, got %v", v.Errors())
			}
			if v.Errors()[0].Field != tc.field {
				t.Errorf("field = %q, want %q", v.Errors()[0].Field, tc.field)
			}
			if !errors.IsCode(v.Err(), errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT error, got %v", v.Err())
			}
		})
	}
}

func TestOneOfAllowsEmpty(t *testing.T) {
	if New().OneOf("method", "", []string{"GET"}).HasErrors() {
		t.Error("empty value should pass OneOf")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"MaxConnections": "max_connections",
		"Origin":         "origin",
		"":               "",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
