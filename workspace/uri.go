package workspace

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizeURI lowercases the scheme and, on Windows path URIs, lowercases
// the drive letter and canonicalizes a percent-encoded colon so that
// normalize(normalize(u)) == normalize(u).
func NormalizeURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	u.Scheme = strings.ToLower(u.Scheme)

	if u.Scheme == "file" {
		path := u.Path
		path = strings.Replace(path, "%3A", ":", 1)
		path = strings.Replace(path, "%3a", ":", 1)
		if len(path) >= 3 && path[0] == '/' && isWindowsDriveLetter(path[1]) && path[2] == ':' {
			path = "/" + strings.ToLower(path[1:2]) + path[2:]
		}
		u.Path = path
	}

	return u.String()
}

// URIToPath converts a file:// URI to a filesystem path.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", errNotFileURI(uri)
	}

	path := u.Path
	if runtime.GOOS == "windows" {
		if len(path) >= 3 && path[0] == '/' && isWindowsDriveLetter(path[1]) && path[2] == ':' {
			path = path[1:]
		}
		path = filepath.FromSlash(path)
	}
	return path, nil
}

// PathToURI converts a filesystem path to a file:// URI.
func PathToURI(path string) string {
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	path = filepath.ToSlash(path)
	if runtime.GOOS == "windows" && len(path) >= 2 && isWindowsDriveLetter(path[0]) && path[1] == ':' {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

func isWindowsDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

type notFileURIError string

func (e notFileURIError) Error() string { return "not a file URI: " + string(e) }

func errNotFileURI(uri string) error { return notFileURIError(uri) }

// IsLocalURI reports whether uri has the "file" scheme.
func IsLocalURI(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	return strings.ToLower(u.Scheme) == "file"
}
