package storage

import (
	"errors"
	"io/fs"
	"testing"
)

func TestErrorMessageAndUnwrap(t *testing.T) {
	err := newError(ErrFileRead, opLoad, "/tmp/f.json", fs.ErrNotExist)

	want := "load: file read error (/tmp/f.json): file does not exist"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, ErrFileRead) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected kind and cause to match: %v", err)
	}
	if errors.Is(err, ErrParse) {
		t.Fatalf("unexpected kind match")
	}

	bare := newError(ErrConfiguration, "", "", nil)
	if bare.Error() != "configuration error" || !errors.Is(bare, ErrConfiguration) {
		t.Fatalf("unexpected bare error: %v", bare)
	}
}
