package howto

import "context"

// DomainLimiter spaces out requests to the same domain.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// URLSet remembers which URLs have already been processed.
type URLSet interface {
	// Add records url as processed.
	Add(url string)

	// Test reports whether url may have been processed already.
	Test(url string) bool
}
