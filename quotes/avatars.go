package quotes

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// avatarExts is the probe order for avatar assets; the first extension with
// a matching file wins.
var avatarExts = []string{"png", "gif", "jpg", "jpeg", "webp"}

// avatarNamePattern constrains user-supplied avatar names before they are
// used as file stems.
var avatarNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

// Avatars resolves avatar names against a flat directory of image files
// named <name>.<ext>. It keeps no state of its own; the directory is read
// on every call so externally added assets show up without a restart.
type Avatars struct {
	// Dir is the asset directory.
	Dir string
	// BaseURL is the public URL prefix under which Dir is served.
	BaseURL string
	// DefaultURL is returned when no name is given or no asset matches.
	// May be empty, meaning no avatar.
	DefaultURL string
}

// ValidName reports whether name is acceptable as an avatar name.
func ValidName(name string) bool {
	return avatarNamePattern.MatchString(name)
}

// ResolveURL returns the public URL for the named avatar, probing the
// supported extensions in a fixed order. An empty name or a missing asset
// resolves to the configured default.
func (a *Avatars) ResolveURL(name string) string {
	if name == "" {
		return a.DefaultURL
	}
	for _, ext := range avatarExts {
		if fi, err := os.Stat(filepath.Join(a.Dir, name+"."+ext)); err == nil && !fi.IsDir() {
			return strings.TrimRight(a.BaseURL, "/") + "/" + url.PathEscape(name) + "." + ext
		}
	}
	return a.DefaultURL
}

// Exists reports whether an asset file exists for name under any supported
// extension.
func (a *Avatars) Exists(name string) bool {
	for _, ext := range avatarExts {
		if fi, err := os.Stat(filepath.Join(a.Dir, name+"."+ext)); err == nil && !fi.IsDir() {
			return true
		}
	}
	return false
}

// List returns the distinct asset stems in the directory, sorted ascending.
// A missing directory yields an empty list, not an error.
func (a *Avatars) List() []string {
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		dot := strings.LastIndexByte(e.Name(), '.')
		if dot <= 0 {
			continue
		}
		// Case-sensitive, so a listed name always resolves via ResolveURL/Exists.
		stem, ext := e.Name()[:dot], e.Name()[dot+1:]
		if !supportedExt(ext) {
			continue
		}
		if _, dup := seen[stem]; dup {
			continue
		}
		seen[stem] = struct{}{}
		names = append(names, stem)
	}
	sort.Strings(names)
	return names
}

func supportedExt(ext string) bool {
	for _, e := range avatarExts {
		if ext == e {
			return true
		}
	}
	return false
}
