package zoom

import "fmt"

// UpstreamAuthError represents a failed exchange of the service credentials for an access token
type UpstreamAuthError struct {
	Wrapping error
}

func (err *UpstreamAuthError) Error() string {
	return fmt.Sprintf("could not obtain a Zoom access token: %s", err.Wrapping.Error())
}

func (err *UpstreamAuthError) Unwrap() error {
	return err.Wrapping
}

// UpstreamFetchError represents a failed call to one of the Zoom listing endpoints
type UpstreamFetchError struct {
	Wrapping error
	Endpoint string
	Status   int
}

func (err *UpstreamFetchError) Error() string {
	if err.Status != 0 {
		return fmt.Sprintf("Zoom request to '%s' failed with status %d: %s", err.Endpoint, err.Status, err.Wrapping.Error())
	}
	return fmt.Sprintf("Zoom request to '%s' failed: %s", err.Endpoint, err.Wrapping.Error())
}

func (err *UpstreamFetchError) Unwrap() error {
	return err.Wrapping
}
