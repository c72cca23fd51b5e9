package interpolate

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// DefaultHashType is the algorithm used when a hash token names none.
const DefaultHashType = "blake3"

// DefaultDigestType is the encoding used when a hash token names none.
const DefaultDigestType = "hex"

// Digest hashes content with hashType, encodes the sum with digestType and
// truncates it to maxLength characters when maxLength is positive.
func Digest(content []byte, hashType, digestType string, maxLength int) (string, error) {
	if hashType == "" {
		hashType = DefaultHashType
	}
	if digestType == "" {
		digestType = DefaultDigestType
	}

	var sum []byte
	switch strings.ToLower(hashType) {
	case "blake3":
		s := blake3.Sum256(content)
		sum = s[:]
	case "sha256":
		s := sha256.Sum256(content)
		sum = s[:]
	case "sha512":
		s := sha512.Sum512(content)
		sum = s[:]
	case "sha1":
		s := sha1.Sum(content)
		sum = s[:]
	case "md5":
		s := md5.Sum(content)
		sum = s[:]
	default:
		return "", fmt.Errorf("unsupported hash type %q", hashType)
	}

	var digest string
	switch strings.ToLower(digestType) {
	case "hex":
		digest = hex.EncodeToString(sum)
	case "base32":
		digest = base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum)
	case "base64":
		digest = base64.StdEncoding.EncodeToString(sum)
	case "base64url":
		digest = base64.RawURLEncoding.EncodeToString(sum)
	default:
		return "", fmt.Errorf("unsupported digest type %q", digestType)
	}

	if maxLength > 0 && maxLength < len(digest) {
		digest = digest[:maxLength]
	}
	return digest, nil
}
