package weather

import "net/http"

// RoundTripperFunc allows using a function as http.RoundTripper (for mocking HTTP responses)
type RoundTripperFunc func(req *http.Request) *http.Response

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}
