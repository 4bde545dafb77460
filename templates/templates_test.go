package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/miku/isokit/tree"
)

func TestLoadBundled(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Fatalf("got %v", names)
	}
	sel := tree.NewSelector(tree.ISONamespaces())
	for _, name := range names {
		tr, err := Store{}.Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if _, err := sel.LocateFirst(tr.Root(), "/gmd:MD_Metadata/gmd:fileIdentifier/gco:CharacterString"); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestLoadIndependentCopies(t *testing.T) {
	a, err := Store{}.Load(ISO19139)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Store{}.Load(ISO19139)
	if err != nil {
		t.Fatal(err)
	}
	a.Root().RemoveChildAt(0)
	if len(a.Root().Child) == len(b.Root().Child) {
		t.Error("trees share state")
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ISO19139), []byte(`<custom/>`), 0644); err != nil {
		t.Fatal(err)
	}
	tr, err := Store{Dir: dir}.Load(ISO19139)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Root().Tag != "custom" {
		t.Errorf("override not used, root %s", tr.Root().Tag)
	}
	if _, err := (Store{Dir: dir}).Load("missing.xml"); err == nil {
		t.Error("expected error for missing template")
	}
}
