// Package linkcheck decides whether a link can be handled by the extraction
// backend, either because it points straight at a media file or because a site
// extractor claims it.
package linkcheck

import (
	_ "embed"
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

//go:embed resources/supported_extensions.json
var supportedExtensionsJSON []byte

// SupportedExtensions returns the directly downloadable media extensions
func SupportedExtensions() []string {
	var exts []string
	if err := json.Unmarshal(supportedExtensionsJSON, &exts); err != nil {
		panic("linkcheck: bad embedded extension list: " + err.Error())
	}
	return exts
}

// Checker implements the link-support check
type Checker struct {
	extensions map[string]struct{}
	extractors []Extractor
}

// NewChecker creates a checker with the given extensions and extractors
func NewChecker(extensions []string, extractors []Extractor) *Checker {
	c := &Checker{
		extensions: make(map[string]struct{}, len(extensions)),
		extractors: extractors,
	}
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.extensions[ext] = struct{}{}
	}
	return c
}

// NewDefaultChecker creates a checker with the embedded extension list and the
// default extractors
func NewDefaultChecker() *Checker {
	return NewChecker(SupportedExtensions(), DefaultExtractors())
}

// Supported reports whether the link can be downloaded. It never fails:
// unsupported or malformed links return false.
func (c *Checker) Supported(link string) bool {
	link = strings.TrimSpace(link)
	if link == "" {
		return false
	}

	if _, ok := c.extensions[linkExtension(link)]; ok {
		return true
	}

	for _, e := range c.extractors {
		if e.Name() == GenericName {
			continue
		}
		if e.Suitable(link) {
			return true
		}
	}

	return false
}

// linkExtension returns the lower-cased extension of the link's path
func linkExtension(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}
