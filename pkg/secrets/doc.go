// Package secrets encrypts sensitive profile fields at rest.
//
// A single master key (SECRETS_MASTER_KEY, base64) is expanded with HKDF into
// one AES-256-GCM key per purpose, so the key used for SSNs cannot decrypt
// anything else:
//
//	key, err := cfg.Key()
//	ssn, err := secrets.NewCipher(key, "ssn")
//	stored, err := ssn.EncryptString("123456789")
//
// Ciphertexts are base64 strings that fit a TEXT column.
package secrets
