package httperrors

import (
	"net/http"

	"github.com/txix-open/isp-kit/json"
)

type HttpError struct {
	statusCode  int
	userMessage string
	fields      map[string]any
	err         error
}

func New(statusCode int, userMessage string, internalError error) HttpError {
	return HttpError{
		statusCode:  statusCode,
		userMessage: userMessage,
		err:         internalError,
	}
}

func (e HttpError) WithField(name string, value any) HttpError {
	fields := make(map[string]any, len(e.fields)+1)
	for k, v := range e.fields {
		fields[k] = v
	}
	fields[name] = value
	e.fields = fields
	return e
}

func (e HttpError) StatusCode() int {
	return e.statusCode
}

func (e HttpError) Error() string {
	return e.err.Error()
}

func (e HttpError) WriteError(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.statusCode)
	data := map[string]any{
		"error": e.userMessage,
	}
	for name, value := range e.fields {
		data[name] = value
	}
	return json.NewEncoder(w).Encode(data)
}
