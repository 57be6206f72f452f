// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and
//              errors.Is/As interoperability.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}

	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}

	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}

	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}

	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}

	if len(err.StackTrace()) == 0 {
		t.Error("StackTrace() should not be empty")
	}
}

func TestNewf(t *testing.T) {
	err := Newf("argument %q declared twice", "target")
	if err.Error() != `argument "target" declared twice` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			message:  "wrapper message",
			wantMsg:  "wrapper message: original error",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap coded error",
			err:      New("bad spec order").WithCode(CodeInvalidSpec),
			message:  "register teleport",
			wantMsg:  "register teleport: bad spec order",
			wantCode: CodeInvalidSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.message)

			if tt.wantNil {
				if wrapped != nil {
					t.Errorf("Wrap() = %v, want nil", wrapped)
				}
				return
			}

			if wrapped == nil {
				t.Fatal("Wrap() returned nil")
			}

			if wrapped.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", wrapped.Error(), tt.wantMsg)
			}

			if wrapped.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", wrapped.Code(), tt.wantCode)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	original := errors.New("root cause")
	middle := Wrap(original, "middle layer")
	top := Wrap(middle, "top layer")

	expected := "top layer: middle layer: root cause"
	if top.Error() != expected {
		t.Errorf("Error() = %q, want %q", top.Error(), expected)
	}

	if !errors.Is(top, original) {
		t.Error("errors.Is should find the root cause")
	}

	if top.RootCause() != original {
		t.Errorf("RootCause() = %v, want %v", top.RootCause(), original)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("argument does not exist").WithCode(CodeArgumentNotExist)
	other := New("argument is absent").WithCode(CodeArgumentAbsent)

	err := fmt.Errorf("lookup failed: %w", New("no argument named x").WithCode(CodeArgumentNotExist))

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should match an error with the same code")
	}
	if errors.Is(err, other) {
		t.Error("errors.Is should not match a different code")
	}
	if errors.Is(New("x"), New("y")) {
		t.Error("errors with unknown code must not match each other")
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeInvalidSpec, SeverityHigh},
		{CodeDuplicateArgument, SeverityHigh},
		{CodeInvalidMessage, SeverityLow},
		{CodeNetworkError, SeverityMedium},
		{CodeEnvironmentError, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.want)
			}
		})
	}

	explicit := New("x").WithSeverity(SeverityLow).WithCode(CodeInvalidSpec)
	if explicit.Severity() != SeverityLow {
		t.Errorf("explicit severity overwritten: %v", explicit.Severity())
	}
}

func TestHasCodeInChain(t *testing.T) {
	inner := New("duplicate").WithCode(CodeDuplicateArgument)
	outer := fmt.Errorf("register: %w", inner)

	if !HasCode(outer, CodeDuplicateArgument) {
		t.Error("HasCode should walk the chain")
	}
	if HasCode(outer, CodeInvalidSpec) {
		t.Error("HasCode matched wrong code")
	}
	if HasCode(nil, CodeInvalidSpec) {
		t.Error("HasCode(nil) should be false")
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode of plain error should be unknown")
	}
}

func TestDetailsAreCopied(t *testing.T) {
	err := New("x").WithDetail("argument", "target").WithDetails(map[string]interface{}{"index": 2})

	details := err.Details()
	details["argument"] = "changed"

	if v, _ := err.Detail("argument"); v != "target" {
		t.Errorf("Detail(argument) = %v, want target", v)
	}
	if v, ok := err.Detail("index"); !ok || v != 2 {
		t.Errorf("Detail(index) = %v, %v", v, ok)
	}
}

func TestStringAndJSON(t *testing.T) {
	err := Wrap(errors.New("boom"), "register failed").
		WithCode(CodeInvalidLabel).
		WithOperation("tree.Add").
		WithDetail("path", "a..b")

	s := err.String()
	for _, want := range []string{"Code: INVALID_LABEL", "Operation: tree.Add", "path=a..b", "Cause: boom"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}

	raw, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("MarshalJSON() error = %v", jerr)
	}
	var decoded map[string]interface{}
	if jerr := json.Unmarshal(raw, &decoded); jerr != nil {
		t.Fatalf("unmarshal: %v", jerr)
	}
	if decoded["code"] != "INVALID_LABEL" || decoded["operation"] != "tree.Add" {
		t.Errorf("unexpected JSON: %s", raw)
	}
}

func TestCodeCategory(t *testing.T) {
	tests := map[Code]string{
		CodeInvalidSpec:      "registration",
		CodeArgumentAbsent:   "arguments",
		CodeDatabaseError:    "database",
		CodeInvalidMessage:   "transport",
		CodeMissingConfig:    "configuration",
		CodeValidationFailed: "validation",
		CodeUnknown:          "generic",
	}
	for code, want := range tests {
		if got := code.Category(); got != want {
			t.Errorf("%s.Category() = %q, want %q", code, got, want)
		}
		if !code.IsValid() {
			t.Errorf("%s.IsValid() = false", code)
		}
	}
	if Code("NOPE").IsValid() {
		t.Error("unknown code reported valid")
	}
}
