package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status        int
		wantTransient bool
	}{
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{422, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			err := classifyStatus("test", tt.status)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := IsTransient(err); got != tt.wantTransient {
				t.Errorf("IsTransient = %v, want %v", got, tt.wantTransient)
			}
		})
	}
}

func TestWrappersPreserveNil(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestIsTransient_WrappedChain(t *testing.T) {
	inner := Transient(errors.New("rate limited"))
	wrapped := fmt.Errorf("after 3 attempts: %w", inner)
	if !IsTransient(wrapped) {
		t.Error("transient error should survive wrapping")
	}
}

func TestIsTransient_UnclassifiedIsPermanent(t *testing.T) {
	if IsTransient(errors.New("plain error")) {
		t.Error("unclassified errors must not be retryable")
	}
	if IsTransient(nil) {
		t.Error("nil is not transient")
	}
}

func TestErrorTaxonomy_Unwrap(t *testing.T) {
	sentinel := errors.New("quota exhausted")
	if !errors.Is(Transient(sentinel), sentinel) {
		t.Error("Transient should unwrap to the underlying error")
	}
	if !errors.Is(Permanent(sentinel), sentinel) {
		t.Error("Permanent should unwrap to the underlying error")
	}
}
