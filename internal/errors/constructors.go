package errors

// Convenience functions for common error patterns

// Input errors

func InputNotFound(path string, cause error) *RunError {
	return Wrap(cause, CategoryInput, SeverityFatal, "input document not found").
		WithContext("path", path)
}

func InputUnreadable(path string, cause error) *RunError {
	return Wrap(cause, CategoryInput, SeverityFatal, "input document unreadable").
		WithContext("path", path)
}

func ResourceFolderMissing(path string, cause error) *RunError {
	return Wrap(cause, CategoryInput, SeverityFatal, "resource folder does not exist").
		WithContext("path", path)
}

func ResourceFolderNotDir(path string) *RunError {
	return New(CategoryInput, SeverityFatal, "resource folder is not a directory").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *RunError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Fetch errors

func UnsupportedURL(url string, cause error) *RunError {
	return Wrap(cause, CategoryParse, SeverityFatal, "unsupported url").
		WithContext("url", url)
}

func FetchFailed(url string, cause error) *RunError {
	return Wrap(cause, CategoryNetwork, SeverityFatal, "fetch failed").
		WithContext("url", url)
}

func WriteFailed(path string, cause error) *RunError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "write failed").
		WithContext("path", path)
}

// ArtifactWriteFailed reports a report or metrics file that could not be
// written. The run itself is unaffected.
func ArtifactWriteFailed(path string, cause error) *RunError {
	return Wrap(cause, CategoryFileSystem, SeverityWarning, "run artifact not written").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *RunError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
