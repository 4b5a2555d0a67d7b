package errors

// Convenience constructors for common error patterns.

// Unauthorized creates an authorization error (missing body or secret mismatch).
func Unauthorized(message string) *AppForgeError {
	return New(CategoryAuth, SeverityWarning, message)
}

// ValidationError creates a new validation error.
func ValidationError(message string) *AppForgeError {
	return New(CategoryValidation, SeverityWarning, message)
}

// ConfigRequired reports a missing required configuration field.
func ConfigRequired(field string) *AppForgeError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

// GenerationFailed wraps a language-model call failure.
func GenerationFailed(err error, artifact string) *AppForgeError {
	return Wrap(err, CategoryGeneration, SeverityError, "content generation failed").
		WithContext("artifact", artifact)
}

// PublishFailed wraps a forge-side publish failure.
func PublishFailed(err error, repo string) *AppForgeError {
	return Wrap(err, CategoryPublish, SeverityError, "repository publish failed").
		WithContext("repository", repo)
}

// NotificationFailed reports an exhausted notification delivery. Notification
// failures are non-fatal to the pipeline, hence warning severity.
func NotificationFailed(url string, attempts int) *AppForgeError {
	return New(CategoryNotification, SeverityWarning, "notification delivery exhausted").
		WithContext("url", url).
		WithContext("attempts", attempts)
}
