package common

// AppError is an error that knows how it is reported to API clients.
type AppError struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
	// Err is the domain error behind the response, kept for errors.Is.
	Err error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }
