package quotes

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeAsset(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
		t.Fatalf("write asset %s: %v", name, err)
	}
}

func TestResolveURLDefaultForEmptyName(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "alice.png")
	a := &Avatars{Dir: dir, BaseURL: "https://example.com/avatars", DefaultURL: "https://example.com/default.png"}
	if got := a.ResolveURL(""); got != a.DefaultURL {
		t.Errorf("ResolveURL(\"\") = %q, want default %q", got, a.DefaultURL)
	}

	none := &Avatars{Dir: dir, BaseURL: "https://example.com/avatars"}
	if got := none.ResolveURL(""); got != "" {
		t.Errorf("ResolveURL(\"\") with no default = %q, want empty", got)
	}
}

func TestResolveURLMissingAsset(t *testing.T) {
	a := &Avatars{Dir: t.TempDir(), BaseURL: "https://example.com/avatars", DefaultURL: "https://example.com/default.png"}
	if got := a.ResolveURL("ghost"); got != a.DefaultURL {
		t.Errorf("ResolveURL(ghost) = %q, want default %q", got, a.DefaultURL)
	}
}

func TestResolveURLHit(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "alice.gif")
	a := &Avatars{Dir: dir, BaseURL: "https://example.com/avatars/"}
	want := "https://example.com/avatars/alice.gif"
	if got := a.ResolveURL("alice"); got != want {
		t.Errorf("ResolveURL(alice) = %q, want %q", got, want)
	}
}

func TestResolveURLExtensionPreference(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "bob.webp")
	writeAsset(t, dir, "bob.png")
	a := &Avatars{Dir: dir, BaseURL: "https://example.com/a"}
	// png wins over webp in the fixed probe order.
	want := "https://example.com/a/bob.png"
	if got := a.ResolveURL("bob"); got != want {
		t.Errorf("ResolveURL(bob) = %q, want %q", got, want)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "carol.jpeg")
	a := &Avatars{Dir: dir}
	if !a.Exists("carol") {
		t.Errorf("Exists(carol) = false, want true")
	}
	if a.Exists("ghost") {
		t.Errorf("Exists(ghost) = true, want false")
	}
}

func TestListSortedAndDistinct(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "zed.png")
	writeAsset(t, dir, "alice.png")
	writeAsset(t, dir, "alice.gif")
	writeAsset(t, dir, "notes.txt") // unsupported extension, ignored
	a := &Avatars{Dir: dir}
	want := []string{"alice", "zed"}
	if got := a.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestListAgreesWithResolution(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "Shouty.PNG") // uppercase extension: not probeable, so not listed
	writeAsset(t, dir, "alice.png")
	a := &Avatars{Dir: dir, BaseURL: "https://example.com/a", DefaultURL: "https://example.com/default.png"}

	want := []string{"alice"}
	if got := a.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	// Every listed name must exist and resolve to a non-default URL.
	for _, name := range a.List() {
		if !a.Exists(name) {
			t.Errorf("listed name %q fails Exists", name)
		}
		if got := a.ResolveURL(name); got == a.DefaultURL {
			t.Errorf("listed name %q resolves to the default URL", name)
		}
	}
	if a.Exists("Shouty") {
		t.Errorf("Exists(Shouty) = true for an uppercase-extension asset the probes cannot see")
	}
}

func TestListMissingDir(t *testing.T) {
	a := &Avatars{Dir: filepath.Join(t.TempDir(), "nope")}
	if got := a.List(); len(got) != 0 {
		t.Errorf("List() on missing dir = %v, want empty", got)
	}
}

func TestValidName(t *testing.T) {
	valid := []string{"alice", "Bob_2", "x-y-z", "A"}
	for _, n := range valid {
		if !ValidName(n) {
			t.Errorf("ValidName(%q) = false, want true", n)
		}
	}
	invalid := []string{"", "has space", "dot.name", "../../etc", "émile",
		strings.Repeat("a", 51)}
	for _, n := range invalid {
		if ValidName(n) {
			t.Errorf("ValidName(%q) = true, want false", n)
		}
	}
}
