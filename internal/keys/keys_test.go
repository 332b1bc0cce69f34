package keys

import (
	"regexp"
	"testing"
	"unicode"
)

func TestFingerprint_WhitespaceInsensitive(t *testing.T) {
	a := Fingerprint("[out:json];\n  rel(42);\tout ids;")
	b := Fingerprint(" [out:json]; rel(42); out ids; ")
	if a != b {
		t.Fatalf("fingerprints differ: %s vs %s", a, b)
	}
	if !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(a) {
		t.Fatalf("unexpected fingerprint format %q", a)
	}
}

func TestFingerprint_DifferentQueriesDiffer(t *testing.T) {
	if Fingerprint("rel(1);out ids;") == Fingerprint("rel(2);out ids;") {
		t.Fatal("different queries must produce different fingerprints")
	}
}

func TestProcessedSet_SanitizesSessionID(t *testing.T) {
	k := ProcessedSet("ab:cd  ef/ü")
	if k != "geosearch:session:ab-cd_ef-:processed" {
		t.Fatalf("unexpected key %q", k)
	}
	for _, r := range k {
		if r > unicode.MaxASCII {
			t.Fatalf("non-ASCII rune leaked into key: %q", k)
		}
	}
	if ProcessedSet("") != "geosearch:session:_:processed" {
		t.Fatalf("empty id key: %q", ProcessedSet(""))
	}
}
