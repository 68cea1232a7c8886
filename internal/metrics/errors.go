package metrics

import (
	"errors"

	"github.com/saadjs/fitquest/internal/tracker"
)

func isValidation(err error) bool {
	var verr *tracker.ValidationError
	return errors.As(err, &verr)
}

func isNotFound(err error) bool {
	return errors.Is(err, tracker.ErrNotFound)
}
