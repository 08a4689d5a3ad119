package errors

import (
	"errors"
	"testing"
)

func TestErrorWrapper(t *testing.T) {
	wrapper := NewWrapper("bot", "ask")

	t.Run("Wrap returns nil for nil error", func(t *testing.T) {
		result := wrapper.Wrap(nil, "não foi possível responder")
		if result != nil {
			t.Errorf("expected nil, got %v", result)
		}
	})

	t.Run("Wrap creates WrappedError", func(t *testing.T) {
		baseErr := errors.New("database connection failed")
		wrapped := wrapper.Wrap(baseErr, "não foi possível responder")

		if wrapped == nil {
			t.Fatal("expected non-nil wrapped error")
		}

		wrappedErr, ok := wrapped.(*WrappedError)
		if !ok {
			t.Fatal("expected WrappedError type")
		}

		if wrappedErr.Module != "bot" {
			t.Errorf("expected module 'bot', got '%s'", wrappedErr.Module)
		}

		if wrappedErr.Operation != "ask" {
			t.Errorf("expected operation 'ask', got '%s'", wrappedErr.Operation)
		}

		if wrappedErr.UserMessage != "não foi possível responder" {
			t.Errorf("expected user message 'não foi possível responder', got '%s'", wrappedErr.UserMessage)
		}

		if !errors.Is(wrapped, baseErr) {
			t.Error("wrapped error should unwrap to base error")
		}
	})

	t.Run("Wrapf formats message", func(t *testing.T) {
		baseErr := errors.New("not found")
		wrapped := wrapper.Wrapf(baseErr, "pergunta não encontrada: %s", "abc-123")

		wrappedErr := wrapped.(*WrappedError)
		expected := "pergunta não encontrada: abc-123"
		if wrappedErr.UserMessage != expected {
			t.Errorf("expected '%s', got '%s'", expected, wrappedErr.UserMessage)
		}
	})
}

func TestGetUserMessage(t *testing.T) {
	t.Run("returns empty string for nil", func(t *testing.T) {
		result := GetUserMessage(nil)
		if result != "" {
			t.Errorf("expected empty string, got '%s'", result)
		}
	})

	t.Run("returns user message from WrappedError", func(t *testing.T) {
		wrapped := &WrappedError{
			Operation:   "test",
			Module:      "test",
			Cause:       errors.New("base error"),
			UserMessage: "user friendly message",
		}

		result := GetUserMessage(wrapped)
		if result != "user friendly message" {
			t.Errorf("expected 'user friendly message', got '%s'", result)
		}
	})

	t.Run("returns error string for non-WrappedError", func(t *testing.T) {
		err := errors.New("plain error")
		result := GetUserMessage(err)
		if result != "plain error" {
			t.Errorf("expected 'plain error', got '%s'", result)
		}
	})
}

func TestWrappedError_Error(t *testing.T) {
	wrapped := &WrappedError{
		Operation:   "create_entry",
		Module:      "storage",
		Cause:       errors.New("db error"),
		UserMessage: "falha ao salvar",
	}

	errMsg := wrapped.Error()
	expected := "[storage:create_entry] falha ao salvar: db error"
	if errMsg != expected {
		t.Errorf("expected '%s', got '%s'", expected, errMsg)
	}
}
