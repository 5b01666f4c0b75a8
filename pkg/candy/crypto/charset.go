package crypto

// KeyLen is the length of every key used by the appliance firmware.
const KeyLen = 16

// KeyCharset lists the symbols a key byte can take, in enumeration order.
const KeyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// plaintextCharset is the classic printable ASCII set: digits, letters,
// punctuation, space and \t \n \v \f \r (100 values).
const plaintextCharset = "0123456789" +
	"abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" +
	" \t\n\r\x0b\x0c"

var printable [256]bool

func init() {
	for i := 0; i < len(plaintextCharset); i++ {
		printable[plaintextCharset[i]] = true
	}
}

// IsPrintable reports whether b belongs to the plaintext charset.
func IsPrintable(b byte) bool {
	return printable[b]
}

// IsValidKey reports whether key has the expected length and only uses
// symbols from KeyCharset.
func IsValidKey(key []byte) bool {
	if len(key) != KeyLen {
		return false
	}
	for _, b := range key {
		if !isKeySymbol(b) {
			return false
		}
	}
	return true
}

func isKeySymbol(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
