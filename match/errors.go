package match

import "fmt"

// AmbiguousKindError reports a collection whose remote object kind could not
// be decided. The whole search batch aborts on it because the condition
// points at malformed library input rather than a transient failure.
type AmbiguousKindError struct {
	Collection string
}

func (e *AmbiguousKindError) Error() string {
	return fmt.Sprintf("cannot determine remote kind for collection %q", e.Collection)
}

// ItemMatchError records a failure while searching or scoring one track.
// It stays confined to that track: the track is classified unmatched and the
// rest of the batch keeps going.
type ItemMatchError struct {
	Track    string
	Original error
}

func (e *ItemMatchError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("match failed for %q: %v", e.Track, e.Original)
	}
	return fmt.Sprintf("match failed for %q", e.Track)
}

func (e *ItemMatchError) Unwrap() error {
	return e.Original
}
