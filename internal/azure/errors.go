package azure

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// IsNotFound checks if an error indicates a missing resource or size.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return isStatusCode(err, http.StatusNotFound)
}

// IsAuthError checks if an error indicates unusable credentials.
// These errors are fatal and should not be retried.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if isStatusCode(err, http.StatusUnauthorized, http.StatusForbidden) {
		return true
	}
	var authErr *azidentity.AuthenticationFailedError
	return errors.As(err, &authErr)
}

// IsThrottled checks if an error indicates ARM rate limiting.
func IsThrottled(err error) bool {
	return isStatusCode(err, http.StatusTooManyRequests)
}

// isRetryable reports whether a provider call is worth repeating.
// Throttling and server-side failures are transient; everything else
// (bad input, missing resource, auth) is not.
func isRetryable(err error) bool {
	if err == nil || IsAuthError(err) || IsNotFound(err) {
		return false
	}
	if IsThrottled(err) {
		return true
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode >= http.StatusInternalServerError
	}
	// Transport-level errors carry no status code; retry those too.
	return true
}

// isStatusCode checks if the error is an ARM response error with one of the
// given HTTP status codes.
func isStatusCode(err error, codes ...int) bool {
	if err == nil {
		return false
	}
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	for _, code := range codes {
		if respErr.StatusCode == code {
			return true
		}
	}
	return false
}
