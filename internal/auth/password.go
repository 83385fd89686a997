package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an account password at the configured bcrypt cost.
// Used for sign-up, admin-driven account management and startup seeding.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a sign-in attempt against the stored hash.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
