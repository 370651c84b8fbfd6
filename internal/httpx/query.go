package httpx

import (
	"net/http"
	"strconv"

	"bookmory/internal/apperr"
)

// QueryInt reads an optional integer query parameter. A missing value is 0 so
// services can apply their own defaults; anything unparsable is a Validation error.
func QueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validationf("%s must be an integer", name).
			WithFields(apperr.FieldError{Field: name, Message: name + " must be an integer"})
	}
	return n, nil
}
