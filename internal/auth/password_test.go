package auth

import (
	"strings"
	"testing"
)

// =========================================================================
// HELPER
// =========================================================================

// newTestPasswordService uses bcrypt cost 4, the library minimum. The
// production cost makes every Hash call take ~250ms, which would dominate
// the whole suite's runtime for no extra coverage.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_ProducesBcryptOutput(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("abcd1234")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	// bcrypt output always carries the $2 version prefix; anything else
	// means the stored value is not a verifiable hash.
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() = %q, not a bcrypt hash", hash)
	}
}

func TestHash_SaltsEveryCall(t *testing.T) {
	ps := newTestPasswordService()

	// Two members signing up with the same password must not end up with
	// the same row value — bcrypt's per-call salt guarantees it.
	hash1, _ := ps.Hash("abcd1234")
	hash2, _ := ps.Hash("abcd1234")

	if hash1 == hash2 {
		t.Error("Hash() repeated itself for the same input; the salt is not random")
	}
}

func TestHash_Enforces72ByteBoundary(t *testing.T) {
	ps := newTestPasswordService()

	// bcrypt silently ignores everything past byte 72. Silently is the
	// problem: a member typing a longer passphrase would be verifiable by
	// any string sharing its first 72 bytes. Reject instead of truncate.
	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("Hash() accepted a 73-byte password")
	}
	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("Hash() rejected an exactly-72-byte password: %v", err)
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	cases := []struct {
		name     string
		hash     string
		password string
		wantErr  bool
	}{
		{"correct password", hash, "correct-horse-battery-staple", false},
		{"wrong password", hash, "incorrect-horse", true},
		{"empty password", hash, "", true},
		{"garbage stored hash", "not-a-bcrypt-hash", "correct-horse-battery-staple", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ps.Verify(tc.hash, tc.password)
			if tc.wantErr && err == nil {
				t.Error("Verify() = nil, want an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Verify() = %v, want nil", err)
			}
		})
	}
}

// =========================================================================
// ROUND-TRIP TEST
// =========================================================================

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	// Signup imposes a length floor but no character restrictions, so the
	// hash path has to survive whatever members actually type.
	passwords := []string{
		"abcd1234",
		"p@$$w0rd!#%",
		"비밀번호-密码-пароль",
		"  leading and trailing  ",
	}

	for _, password := range passwords {
		hash, err := ps.Hash(password)
		if err != nil {
			t.Fatalf("Hash(%q) error = %v", password, err)
		}
		if err := ps.Verify(hash, password); err != nil {
			t.Errorf("Verify() failed for %q: %v", password, err)
		}
	}
}
