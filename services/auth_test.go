package services

import "testing"

func TestHashToken(t *testing.T) {
	h1 := hashToken("refresh-token-a")
	h2 := hashToken("refresh-token-a")
	h3 := hashToken("refresh-token-b")

	if h1 != h2 {
		t.Error("same token hashed to different values")
	}
	if h1 == h3 {
		t.Error("different tokens hashed to the same value")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(h1))
	}
	if h1 == "refresh-token-a" {
		t.Error("token stored in the clear")
	}
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateNumericCode(6)
		if err != nil {
			t.Fatalf("generateNumericCode() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q length = %d, want 6", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
	}
}
