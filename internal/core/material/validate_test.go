package material

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/jbatch/internal/models"
)

func TestValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "well-formed eight digit code", id: "10000042", want: true},
		{name: "too short", id: "1000042", want: false},
		{name: "too long", id: "100000042", want: false},
		{name: "letters rejected", id: "1000A042", want: false},
		{name: "dashes rejected", id: "100-0042", want: false},
		{name: "empty", id: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidID(tt.id); got != tt.want {
				t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidateBatch(t *testing.T) {
	t.Run("valid list preserves input order", func(t *testing.T) {
		ids, err := ValidateBatch([]Line{
			{Number: 1, ID: "10000003"},
			{Number: 2, ID: "10000001"},
			{Number: 4, ID: "10000002"},
		})
		if err != nil {
			t.Fatalf("ValidateBatch failed: %v", err)
		}
		want := []string{"10000003", "10000001", "10000002"}
		for i, id := range want {
			if ids[i] != id {
				t.Errorf("ids[%d] = %s, want %s", i, ids[i], id)
			}
		}
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := ValidateBatch(nil)
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("malformed identifier names the line", func(t *testing.T) {
		_, err := ValidateBatch([]Line{
			{Number: 1, ID: "10000001"},
			{Number: 3, ID: "MAT-001"},
		})
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if verr.Subject != "line 3" {
			t.Errorf("Subject = %q, want %q", verr.Subject, "line 3")
		}
	})

	t.Run("duplicate identifier names both lines", func(t *testing.T) {
		_, err := ValidateBatch([]Line{
			{Number: 1, ID: "10000001"},
			{Number: 2, ID: "10000002"},
			{Number: 5, ID: "10000001"},
		})
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if verr.Subject != "line 5" {
			t.Errorf("Subject = %q, want %q", verr.Subject, "line 5")
		}
		if !strings.Contains(verr.Reason, "line 1") {
			t.Errorf("Reason %q should name the first occurrence line", verr.Reason)
		}
	})
}
