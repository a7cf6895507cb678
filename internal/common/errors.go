package common

// AppError is the error shape every handler speaks: a stable machine code
// (UNKNOWN_MODEL, CATALOG_STALE, INVALID_SELECTION, ...), a human message,
// and the HTTP status the API maps it to. Details carries field-level
// validation output when present.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause so errors.Is can match sentinel errors wrapped
// inside an AppError.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
