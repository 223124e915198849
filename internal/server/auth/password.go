package auth

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for stored password digests.
const PasswordCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt digest of plain.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// ComparePassword reports whether plain matches digest. Malformed digests
// compare as false.
func ComparePassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
