package service

import "strings"

// MediaURL is the public prefix under which stored image paths are served.
type MediaURL string

// Resolve turns a stored image path into the URL clients should fetch.
// Absolute URLs pass through unchanged.
func (m MediaURL) Resolve(path string) string {
	if path == "" || m == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(string(m), "/") + "/" + strings.TrimLeft(path, "/")
}
