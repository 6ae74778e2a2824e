package lingsite

import (
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments. The bare base keeps a
// trailing slash; a file-like last segment (one with an extension) does not.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") && path.Ext(u.Path) == "" {
		u.Path += "/"
	}
	return u.String()
}
