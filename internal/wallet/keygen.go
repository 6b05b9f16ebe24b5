package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// generateKeypair creates a fresh secp256k1 key and derives its EVM address:
// Keccak-256 of the uncompressed public key (without the 0x04 prefix), last
// 20 bytes, EIP-55 checksummed.
func generateKeypair() (privHex, address string, err error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return "", "", fmt.Errorf("generate secp256k1 key: %w", err)
	}

	pub := priv.PubKey().SerializeUncompressed()
	digest := keccak256(pub[1:])

	return "0x" + hex.EncodeToString(priv.Serialize()), checksumAddress(digest[12:]), nil
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// checksumAddress renders a 20-byte address in EIP-55 mixed case.
func checksumAddress(addr []byte) string {
	unprefixed := []byte(hex.EncodeToString(addr))
	digest := keccak256(unprefixed)
	for i, c := range unprefixed {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2] >> 4
		if i%2 == 1 {
			nibble = digest[i/2] & 0x0f
		}
		if nibble >= 8 {
			unprefixed[i] = c - ('a' - 'A')
		}
	}
	return "0x" + string(unprefixed)
}

// IsHexAddress reports whether s is a canonical EVM address: "0x" followed by
// exactly 40 hex digits.
func IsHexAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}
