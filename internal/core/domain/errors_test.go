package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		expect FailureKind
	}{
		{ErrNotAuthenticated, FailureAuthorization},
		{ErrNotAuthorized, FailureAuthorization},
		{fmt.Errorf("moderate: %w", ErrEventNotPending), FailureStateConflict},
		{ErrEventNotApproved, FailureStateConflict},
		{ErrInvalidPrice, FailureValidation},
		{ErrEventNotFound, FailureNotFound},
		{errors.New("ledger: event already approved"), FailureStateConflict},
		{errors.New("ledger: admin only"), FailureAuthorization},
		{errors.New("connection reset by peer"), FailureTransport},
		{errors.New("http 502: bad gateway"), FailureTransport},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.expect {
			t.Errorf("Classify(%q) = %v, want %v", tt.err, got, tt.expect)
		}
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(errors.New("timeout")) {
		t.Error("transport failure should be retryable")
	}
	if Retryable(ErrEventNotPending) {
		t.Error("state conflict should not be retryable")
	}
	if Retryable(ErrNotAuthorized) {
		t.Error("authorization failure should not be retryable")
	}
}

func TestPrincipal(t *testing.T) {
	if _, err := ParsePrincipal(""); !errors.Is(err, ErrEmptyPrincipal) {
		t.Errorf("ParsePrincipal(\"\") error = %v, want ErrEmptyPrincipal", err)
	}
	p, err := ParsePrincipal("aaaaa-bbbbb-ccccc")
	if err != nil {
		t.Fatalf("ParsePrincipal: %v", err)
	}
	if p.Text() != "aaaaa-bbbbb-ccccc" {
		t.Errorf("Text() = %q", p.Text())
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false", c)
		}
	}
	if ValidCategory("Karaoke") {
		t.Error("unknown category accepted")
	}
}
