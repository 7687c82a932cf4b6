package generation

import "errors"

// Failure kinds surfaced by the generation pipeline. Handlers map these
// to distinct HTTP responses; everything else is a generic 500.
var (
	// ErrQuotaExceeded means the caller used up the rolling per-user
	// quota. The provider is never called in this case.
	ErrQuotaExceeded = errors.New("generation quota exceeded")

	// ErrProviderAuth means the provider rejected our credentials.
	ErrProviderAuth = errors.New("provider authentication failed")

	// ErrProviderRateLimited means the provider itself throttled us.
	ErrProviderRateLimited = errors.New("provider rate limited")

	// ErrProviderBadResponse means the provider answered with an
	// unexpected status or an undecodable body.
	ErrProviderBadResponse = errors.New("provider returned a bad response")

	// ErrUnparseable means no usable JSON object could be extracted
	// from the model's text. The draft is left untouched.
	ErrUnparseable = errors.New("unparseable model response")

	// ErrStageNotReady means a required earlier stage payload is
	// missing, e.g. a problem statement requested with no selected
	// personas.
	ErrStageNotReady = errors.New("required earlier stage output missing")

	// ErrStaleRequest means a newer generation request for the same
	// project committed first; this response is discarded.
	ErrStaleRequest = errors.New("superseded by a newer generation request")
)
