package detect

import (
	"fmt"
	"strings"
)

// Mode is the encryption behaviour of a device.
type Mode int

const (
	// NoEncryption: request with encrypted=0, response is plain JSON.
	NoEncryption Mode = 1
	// Encryption: request with encrypted=1, response is XORed JSON in hex.
	Encryption Mode = 2
	// EncryptionWithoutKey: request with encrypted=1, response is plain JSON in hex.
	EncryptionWithoutKey Mode = 3
)

var modeNames = map[Mode]string{
	NoEncryption:         "no_encryption",
	Encryption:           "encryption",
	EncryptionWithoutKey: "encryption_without_key",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode looks a mode up by its name.
func ParseMode(name string) (Mode, error) {
	for mode, n := range modeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown encryption mode: %q", name)
}
