package token

// secretProvider supplies the HMAC key used to sign and verify tokens.
type secretProvider interface {
	Get() []byte
}

// SecretString is a signing key held in memory, read from configuration at startup.
type SecretString struct {
	secret []byte
}

// NewSecretString wraps the configured JWT secret.
func NewSecretString(secret string) *SecretString {
	return &SecretString{
		secret: []byte(secret),
	}
}

func (s *SecretString) Get() []byte {
	return s.secret
}
