package howto

import (
	"fmt"
	"net/url"
	"strings"
)

// ImageReference is an unresolved image source found on an image-bearing
// element, together with the attribute it was read from.
type ImageReference struct {
	Value string
	Attr  string
}

// ImageAttributes lists the attributes that may carry an image source, in
// order of preference: the explicit source first, then lazy-load
// placeholders, then low-quality placeholders. When several are present on
// one element the earliest one wins.
var ImageAttributes = []string{
	"src",
	"data-src",
	"data-lazy-src",
	"data-original",
	"data-url",
	"data-lqip",
}

// ImageAttributeRank returns the preference rank of an attribute name
// (0 is best), or -1 if the attribute never carries an image source.
func ImageAttributeRank(attr string) int {
	attr = strings.ToLower(attr)
	for i, a := range ImageAttributes {
		if a == attr {
			return i
		}
	}
	return -1
}

// SelectImageReference picks the best-ranked, non-blank image attribute
// from an element's attributes. Returns false if none is present.
func SelectImageReference(attrs map[string]string) (ImageReference, bool) {
	var ref ImageReference
	best := -1
	for name, value := range attrs {
		rank := ImageAttributeRank(name)
		if rank < 0 || strings.TrimSpace(value) == "" {
			continue
		}
		if best < 0 || rank < best {
			best = rank
			ref = ImageReference{Value: strings.TrimSpace(value), Attr: strings.ToLower(name)}
		}
	}
	return ref, best >= 0
}

// ResolveImage converts an image reference into an absolute HTTP(S) URL.
//
// Absolute references are validated and returned unchanged. Relative
// references (path-relative, root-relative and scheme-relative) are joined
// against baseURL. References that are blank, use a non-HTTP scheme such as
// data: placeholders, or do not name a host after joining are rejected with
// an error wrapping ErrRejected.
func ResolveImage(ref ImageReference, baseURL string) (string, error) {
	raw := strings.TrimSpace(ref.Value)
	if raw == "" {
		return "", fmt.Errorf("%w: empty %s", ErrRejected, ref.Attr)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRejected, err)
	}

	if u.IsAbs() {
		if err := checkHTTP(u); err != nil {
			return "", err
		}
		return raw, nil
	}

	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || !base.IsAbs() {
		return "", fmt.Errorf("%w: invalid base URL %q", ErrRejected, baseURL)
	}

	resolved := base.ResolveReference(u)
	if err := checkHTTP(resolved); err != nil {
		return "", err
	}
	return resolved.String(), nil
}

// checkHTTP verifies that u is an http or https URL with a host.
func checkHTTP(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrRejected, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrRejected)
	}
	return nil
}
