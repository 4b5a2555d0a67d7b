package errors

import (
	stderrors "errors"
	"testing"
)

func TestClassification(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := New(CategoryConfig, SeverityFatal, "invalid configuration").
			WithContext("file", "config.yaml")

		if err.Category != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity)
		}
		if err.Context["file"] != "config.yaml" {
			t.Errorf("expected context file=config.yaml, got %v", err.Context["file"])
		}
		if IsRetryable(err) {
			t.Error("expected new error to not be retryable")
		}
	})

	t.Run("Wrapping preserves cause", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := WrapRetryable(cause, CategoryNetwork, SeverityWarning, "callback failed")

		if !stderrors.Is(err, cause) {
			t.Error("expected wrapped error to match cause via errors.Is")
		}
		if !IsRetryable(err) {
			t.Error("expected retryable error")
		}
		if !IsCategory(err, CategoryNetwork) {
			t.Error("expected network category")
		}
	})

	t.Run("Category helpers on plain errors", func(t *testing.T) {
		plain := stderrors.New("plain")
		if IsCategory(plain, CategoryAuth) {
			t.Error("plain error must not match any category")
		}
		if GetCategory(plain) != CategoryInternal {
			t.Error("plain error must default to internal category")
		}
	})
}

func TestErrorStrings(t *testing.T) {
	bare := New(CategoryAuth, SeverityWarning, "secret mismatch")
	if bare.Error() != "auth (warning): secret mismatch" {
		t.Errorf("unexpected message: %s", bare.Error())
	}

	wrapped := Wrap(stderrors.New("EOF"), CategoryGeneration, SeverityError, "completion failed")
	if wrapped.Error() != "generation (error): completion failed: EOF" {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}

func TestConstructors(t *testing.T) {
	if !IsCategory(Unauthorized("x"), CategoryAuth) {
		t.Error("Unauthorized must be auth category")
	}
	if !IsCategory(ValidationError("x"), CategoryValidation) {
		t.Error("ValidationError must be validation category")
	}

	cr := ConfigRequired("server.secret")
	if cr.Severity != SeverityFatal {
		t.Error("missing config must be fatal")
	}
	if cr.Context["field"] != "server.secret" {
		t.Errorf("expected field context, got %v", cr.Context["field"])
	}

	gf := GenerationFailed(stderrors.New("boom"), "index.html")
	if gf.Context["artifact"] != "index.html" {
		t.Error("expected artifact context")
	}

	pf := PublishFailed(stderrors.New("boom"), "llm-app-x")
	if pf.Context["repository"] != "llm-app-x" {
		t.Error("expected repository context")
	}

	nf := NotificationFailed("https://eval.example.com", 5)
	if nf.Severity != SeverityWarning {
		t.Error("notification exhaustion must be a warning")
	}
}

func TestChainedTaskAndStage(t *testing.T) {
	err := GenerationFailed(stderrors.New("boom"), "index.html").
		WithTask("demo-1").
		WithStage("generating")

	if err.Context["task_id"] != "demo-1" {
		t.Errorf("expected task context, got %v", err.Context["task_id"])
	}
	if err.Context["stage"] != "generating" {
		t.Errorf("expected stage context, got %v", err.Context["stage"])
	}
}
