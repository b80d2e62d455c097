// Package fs stores guides as JSON files. Both stores stage their output
// and only replace the destination on Commit.
package fs

import (
	"bytes"
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/howto"
)

// Indent is the JSON indentation used for guide files.
const Indent = "    "

// URLToPath converts a guide URL to a relative file path under its host.
// Example: https://example.com/guide/shelf → example.com/guide/shelf.json
// Dot segments are resolved against the root, so the result never leaves
// the host directory. URLs without a host are rejected with EINVALID.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", howto.Errorf(howto.EINVALID, "invalid guide URL %q: %v", rawURL, err)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" || host == "." || host == ".." {
		return "", howto.Errorf(howto.EINVALID, "guide URL %q has no host", rawURL)
	}

	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	switch {
	case p == "":
		return host + "/index.json", nil
	case strings.HasSuffix(u.Path, "/"):
		return host + "/" + p + "/index.json", nil
	default:
		return host + "/" + p + ".json", nil
	}
}

// Marshal encodes v as indented JSON with a trailing newline. Non-ASCII
// text and HTML characters are written as-is, not escaped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
