package password

import (
	"errors"
	"strings"
	"testing"
)

// cheap keeps the suite fast; production hashing uses DefaultParams.
var cheap = &Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestHash_Format(t *testing.T) {
	hash, err := Hash("correcthorsebatterystaple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !IsHash(hash) {
		t.Errorf("Hash() = %s, missing argon2id prefix", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("Hash() has %d parts, want 6", len(parts))
	}
	if !strings.Contains(hash, "m=65536,t=3,p=2") {
		t.Errorf("Hash() did not use default params: %s", hash)
	}
}

func TestHash_Salted(t *testing.T) {
	a, _ := HashWithParams("same", cheap)
	b, _ := HashWithParams("same", cheap)
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestVerify(t *testing.T) {
	hash, err := HashWithParams("mysecretpassword", cheap)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"correct password", hash, "mysecretpassword", nil},
		{"wrong password", hash, "wrongpassword", ErrMismatch},
		{"empty password", hash, "", ErrMismatch},
		{"not a hash", "notahash", "x", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA", "x", ErrInvalidHash},
		{"wrong version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA", "x", ErrIncompatibleVersion},
		{"bad params", "$argon2id$v=19$m=x$c2FsdA$aGFzaA", "x", ErrInvalidHash},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA", "x", ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Verify(tt.hash, tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewCredential(t *testing.T) {
	hashed, _ := HashWithParams("s3cret-pass", cheap)

	tests := []struct {
		name    string
		secret  string
		wantErr error
		good    string
	}{
		{"plain secret is hashed", "s3cret-pass", nil, "s3cret-pass"},
		{"existing hash is kept", hashed, nil, "s3cret-pass"},
		{"empty", "", ErrEmpty, ""},
		{"malformed hash", "$argon2id$broken", ErrInvalidHash, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCredential(tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewCredential() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !c.Matches(tt.good) {
				t.Error("credential rejects its own secret")
			}
			if c.Matches("wrong") || c.Matches("") {
				t.Error("credential accepts a wrong secret")
			}
			if c.hash == tt.good {
				t.Error("plain secret kept unhashed")
			}
		})
	}
}

func TestCredential_ZeroValue(t *testing.T) {
	var c Credential
	if c.Matches("") || c.Matches("anything") {
		t.Error("zero credential matched")
	}
}

func BenchmarkVerify(b *testing.B) {
	hash, _ := Hash("benchmarkpassword")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Verify(hash, "benchmarkpassword")
	}
}
