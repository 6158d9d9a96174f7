package pasetotoken

import (
	"log/slog"
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

// LoadLocalKey parses a hex v4.local key. An empty string yields a fresh
// random key and generated=true; tokens signed with it die with the process.
func LoadLocalKey(hexKey string) (key paseto.V4SymmetricKey, generated bool, err error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return paseto.NewV4SymmetricKey(), true, nil
	}

	key, err = paseto.V4SymmetricKeyFromHex(hexKey)
	if err != nil {
		return paseto.V4SymmetricKey{}, false, ErrConfig{Msg: "invalid local key hex: " + err.Error()}
	}
	return key, false, nil
}

func warnGenerated() {
	slog.Warn("paseto: authentication.paseto.local_key_hex is empty, using a random key; admin tokens will not survive a restart")
}
