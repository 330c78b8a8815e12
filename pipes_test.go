package pipes

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func samplePaths(t *testing.T) []string {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "*.pipes"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no sample programs in testdata")
	}

	return paths
}

func TestDecodeFileSamples(t *testing.T) {
	for _, path := range samplePaths(t) {
		prog, err := DecodeFile(path, nil)
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		if len(prog.Stmts) == 0 {
			t.Fatalf("decode %s: empty program", path)
		}
		if issues := Validate(prog, nil); len(issues) != 0 {
			t.Fatalf("validate %s: %v", path, issues)
		}
	}
}

func TestSampleRoundTrip(t *testing.T) {
	for _, path := range samplePaths(t) {
		first, err := DecodeFile(path, nil)
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}

		text, err := Format(first, nil)
		if err != nil {
			t.Fatalf("format %s: %v", path, err)
		}

		second, err := Parse(text, nil)
		if err != nil {
			t.Fatalf("reparse %s: %v\nrendered:\n%s", path, err, text)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("round trip of %s not stable", path)
		}
	}
}

func TestDecodeReader(t *testing.T) {
	prog, err := Decode(strings.NewReader("x = 1\ny = x + 1\n"), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Stmts))
	}
}

func TestEncodeFileRoundTrip(t *testing.T) {
	first, err := DecodeFile(filepath.Join("testdata", "basic.pipes"), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.pipes")
	if err := EncodeFile(path, first, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	second, err := DecodeFile(path, nil)
	if err != nil {
		t.Fatalf("decode written file: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("file round trip not stable")
	}
}

func TestDecodeFileMissing(t *testing.T) {
	if _, err := DecodeFile(filepath.Join("testdata", "no-such-file.pipes"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}
