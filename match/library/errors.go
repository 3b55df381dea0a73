package library

import "fmt"

// TrackError represents a failure reading or writing a single track file.
type TrackError struct {
	Path     string
	Message  string
	Original error
}

func (e *TrackError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Path, e.Message, e.Original)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *TrackError) Unwrap() error {
	return e.Original
}
