package marc

import "testing"

func TestValidateLeader_Valid(t *testing.T) {
	s := "00043    82200037   4500001000400000\x1eaaaa\x1e\x1d"
	base, err := validateLeader(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base != 37 {
		t.Errorf("expected base address 37, got %d", base)
	}
}

func TestValidateLeader_TooShort(t *testing.T) {
	if _, err := validateLeader("short"); err == nil {
		t.Fatal("expected error for too-short input")
	}
}

func TestValidateLeader_NonNumericLength(t *testing.T) {
	s := "XXXXX    82200037   4500001000400000\x1eaaaa\x1e\x1d"
	if _, err := validateLeader(s); err == nil {
		t.Fatal("expected error for non-numeric length")
	}
}

func TestValidateLeader_LengthOutsideBounds(t *testing.T) {
	// Reported length far larger than the decoded string can explain.
	s := "99999    82200037   4500001000400000\x1eaaaa\x1e\x1d"
	if _, err := validateLeader(s); err == nil {
		t.Fatal("expected error for out-of-bounds reported length")
	}
}

func TestValidateLeader_BaseAddressNotAtTerminator(t *testing.T) {
	s := "00043    82200036   4500001000400000\x1eaaaa\x1e\x1d"
	if _, err := validateLeader(s); err == nil {
		t.Fatal("expected error when base address doesn't land on a field terminator")
	}
}

func TestValidateLeader_Not4500Suffix(t *testing.T) {
	s := "00043    82200037   45xx001000400000\x1eaaaa\x1e\x1d"
	if _, err := validateLeader(s); err == nil {
		t.Fatal("expected error for leader not ending in 4500")
	}
}
