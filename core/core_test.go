package core_test

import (
	"errors"
	"testing"

	"github.com/k2lang/katch/core"
)

func TestCheckField(t *testing.T) {
	if err := core.CheckField(0, 1); err != nil {
		t.Fatalf("x0 must be valid with k=1: %v", err)
	}
	if err := core.CheckField(3, 4); err != nil {
		t.Fatalf("x3 must be valid with k=4: %v", err)
	}
	if err := core.CheckField(4, 4); !errors.Is(err, core.ErrFieldRange) {
		t.Fatalf("expected ErrFieldRange, got %v", err)
	}
	if err := core.CheckField(0, 0); !errors.Is(err, core.ErrFieldRange) {
		t.Fatalf("expected ErrFieldRange with k=0, got %v", err)
	}
	if err := core.CheckField(0, -1); !errors.Is(err, core.ErrBadNumFields) {
		t.Fatalf("expected ErrBadNumFields, got %v", err)
	}
}
