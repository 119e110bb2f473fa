package catalog

import "errors"

// Repository failure taxonomy. Callers match with errors.Is; the HTTP layer
// maps every one of these to a 400 response carrying the message text.
var (
	ErrAlreadyExists         = errors.New("record already exists")
	ErrNotFound              = errors.New("record not found")
	ErrNoUpdatesProvided     = errors.New("no updates provided")
	ErrIncompleteSizeDetails = errors.New("incomplete size details")
	ErrRatingAlreadyExists   = errors.New("rating already exists for species")
	ErrRatingNotFound        = errors.New("rating not found for species")
	ErrSizeNotFound          = errors.New("size not found")
)

// IsDomainError reports whether err belongs to the repository failure
// taxonomy, as opposed to an unexpected store error.
func IsDomainError(err error) bool {
	for _, domain := range []error{
		ErrAlreadyExists,
		ErrNotFound,
		ErrNoUpdatesProvided,
		ErrIncompleteSizeDetails,
		ErrRatingAlreadyExists,
		ErrRatingNotFound,
		ErrSizeNotFound,
	} {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}
