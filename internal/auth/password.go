package auth

import "golang.org/x/crypto/bcrypt"

func HashPassword(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// Bcrypt adapts HashPassword and CheckPassword to the user service.
type Bcrypt struct{}

func (Bcrypt) Hash(password string) (string, error) {
	return HashPassword(password)
}

func (Bcrypt) Compare(hash, password string) bool {
	return CheckPassword(hash, password)
}
