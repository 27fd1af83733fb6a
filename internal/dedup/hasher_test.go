package dedup_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/dedup"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    dedup.Algorithm
		wantErr bool
	}{
		{"", dedup.Blake3, false},
		{"blake3", dedup.Blake3, false},
		{"xxhash", dedup.XXHash, false},
		{"md5", dedup.Blake3, true},
	}
	for _, tt := range tests {
		got, err := dedup.ParseAlgorithm(tt.in)
		if tt.wantErr {
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Errorf("ParseAlgorithm(%q) error = %v, want ErrInvalidInput", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAlgorithm(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHasherHash(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	os.WriteFile(a, []byte("same content"), 0644)
	os.WriteFile(b, []byte("same content"), 0644)
	os.WriteFile(c, []byte("other content"), 0644)

	for _, alg := range []dedup.Algorithm{dedup.Blake3, dedup.XXHash} {
		t.Run(alg.String(), func(t *testing.T) {
			h := dedup.NewHasher(alg)

			ha, err := h.Hash(a)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			hb, _ := h.Hash(b)
			hc, _ := h.Hash(c)

			if ha != hb {
				t.Errorf("identical content hashed differently: %s vs %s", ha, hb)
			}
			if ha == hc {
				t.Errorf("different content collided: %s", ha)
			}
		})
	}

	t.Run("missing file errors", func(t *testing.T) {
		_, err := dedup.NewHasher(dedup.Blake3).Hash(filepath.Join(dir, "nope"))
		if err == nil {
			t.Error("Hash() on missing file should fail")
		}
	})
}
