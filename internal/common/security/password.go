package security

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a password with bcrypt. Login never verifies a
// credential (identity binding only); user records carry a hash of a
// random value as a placeholder so the column is never empty.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
