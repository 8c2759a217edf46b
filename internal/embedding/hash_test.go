// ABOUTME: Tests for the deterministic hash embedding
// ABOUTME: Covers reproducibility, normalization, and empty input
package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
)

func TestHashVectorDeterministic(t *testing.T) {
	h := NewHash(64)

	a := h.Vector("Sydney Opera House landmark")
	b := h.Vector("Sydney Opera House landmark")

	if len(a) != 64 {
		t.Fatalf("expected 64 dimensions, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("dimension %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestHashVectorCaseInsensitive(t *testing.T) {
	h := NewHash(32)

	a := h.Vector("Bondi Beach")
	b := h.Vector("bondi beach")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("case should not change the vector, dimension %d differs", i)
		}
	}
}

func TestHashVectorUnitLength(t *testing.T) {
	h := NewHash(128)

	tests := []struct {
		name string
		text string
	}{
		{"single word", "cafe"},
		{"sentence", "great coffee and quiet atmosphere"},
		{"repeated words", "park park park"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := h.Vector(tt.text)
			var sum float64
			for _, v := range vec {
				sum += v * v
			}
			if math.Abs(math.Sqrt(sum)-1.0) > 1e-9 {
				t.Errorf("expected unit length, got %v", math.Sqrt(sum))
			}
		})
	}
}

func TestHashVectorEmptyText(t *testing.T) {
	h := NewHash(16)

	for _, text := range []string{"", "   ", "\t\n"} {
		vec := h.Vector(text)
		if len(vec) != 16 {
			t.Fatalf("expected 16 dimensions, got %d", len(vec))
		}
		for i, v := range vec {
			if v != 0 {
				t.Errorf("expected zero vector for %q, dimension %d is %v", text, i, v)
			}
		}
	}
}

func TestHashVectorDifferentTexts(t *testing.T) {
	h := NewHash(64)

	a := h.Vector("museum gallery art")
	b := h.Vector("nightclub bar dancing")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical vectors")
	}
}

type failingBackend struct{}

func (failingBackend) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("backend down")
}

func TestProviderFallsBackOnBackendError(t *testing.T) {
	p := New(failingBackend{}, 32, zap.NewNop())

	vec := p.Embed(context.Background(), "harbor view restaurant")
	if len(vec) != 32 {
		t.Fatalf("expected 32 dimensions, got %d", len(vec))
	}

	want := NewHash(32).Vector("harbor view restaurant")
	for i := range vec {
		if vec[i] != want[i] {
			t.Fatalf("fallback vector differs from deterministic embedding at dimension %d", i)
		}
	}
}

type fixedBackend struct {
	vec []float64
}

func (b fixedBackend) Embed(context.Context, string) ([]float64, error) {
	return b.vec, nil
}

func TestProviderUsesBackendWhenHealthy(t *testing.T) {
	want := make([]float64, 32)
	want[0] = 1
	p := New(fixedBackend{vec: want}, 32, zap.NewNop())

	vec := p.Embed(context.Background(), "anything")
	if vec[0] != 1 {
		t.Error("expected the backend vector to be returned")
	}
}

func TestProviderRejectsWrongDimension(t *testing.T) {
	p := New(fixedBackend{vec: make([]float64, 8)}, 32, zap.NewNop())

	vec := p.Embed(context.Background(), "harbor view restaurant")
	if len(vec) != 32 {
		t.Fatalf("expected fallback to 32 dimensions, got %d", len(vec))
	}
}

func TestProviderWithoutBackend(t *testing.T) {
	p := New(nil, 16, nil)
	vec := p.Embed(context.Background(), "beach walk")
	if len(vec) != 16 {
		t.Fatalf("expected 16 dimensions, got %d", len(vec))
	}
}
