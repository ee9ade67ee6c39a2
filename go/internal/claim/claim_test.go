package claim_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/hardwoodgm/hardwood/go/internal/claim"
)

// TestFromRow_Claimed verifies a nil scan error wins the claim and
// carries the resource through.
func TestFromRow_Claimed(t *testing.T) {
	out, err := claim.FromRow("prospect-1", nil)
	if err != nil {
		t.Fatalf("FromRow failed: %v", err)
	}
	if !out.Won() {
		t.Fatal("expected a winning outcome")
	}
	if out.Resource != "prospect-1" {
		t.Errorf("Resource = %q, want %q", out.Resource, "prospect-1")
	}
}

// TestFromRow_AlreadyTaken verifies sql.ErrNoRows becomes a losing
// outcome without surfacing as an error.
func TestFromRow_AlreadyTaken(t *testing.T) {
	out, err := claim.FromRow("", sql.ErrNoRows)
	if err != nil {
		t.Fatalf("FromRow failed: %v", err)
	}
	if out.Won() {
		t.Fatal("expected a losing outcome on sql.ErrNoRows")
	}
	if out.Status != claim.StatusAlreadyTaken {
		t.Errorf("Status = %v, want StatusAlreadyTaken", out.Status)
	}
}

// TestFromRow_RealError verifies everything else is still an error.
func TestFromRow_RealError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := claim.FromRow("", boom)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the scan error back, got %v", err)
	}
}

func TestOutcomeConstructors(t *testing.T) {
	won := claim.Claimed(42)
	if !won.Won() || won.Resource != 42 {
		t.Errorf("Claimed(42) = %+v", won)
	}
	lost := claim.AlreadyTaken[int]()
	if lost.Won() {
		t.Errorf("AlreadyTaken won: %+v", lost)
	}
}
