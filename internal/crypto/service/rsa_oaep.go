package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

const (
	pemTypePrivateKey = "RSA PRIVATE KEY"
	pemTypePublicKey  = "PUBLIC KEY"
)

// RSAEncrypt encrypts plaintext with RSA-OAEP/SHA-256.
//
// The conservative length guard is applied first: a plaintext is rejected when
// len(plaintext) * RSALengthFactor >= key bit length, with the limit and length in the error.
func RSAEncrypt(pub *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	if pub == nil {
		return nil, cryptoDomain.ErrKeyNotLoaded
	}

	bits := pub.N.BitLen()
	if len(plaintext)*cryptoDomain.RSALengthFactor >= bits {
		return nil, &cryptoDomain.PlaintextTooLongError{
			Limit:  bits / cryptoDomain.RSALengthFactor,
			Length: len(plaintext),
		}
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to rsa encrypt: %w", err)
	}
	return ciphertext, nil
}

// RSADecrypt decrypts an RSA-OAEP/SHA-256 ciphertext.
func RSADecrypt(priv *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	if priv == nil {
		return nil, cryptoDomain.ErrKeyNotLoaded
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// rsaEncryptKeyBlob wraps raw key bytes (AES key, IV seed, salt) with the local public key.
// Those blobs are short, so the plaintext guard does not apply.
func rsaEncryptKeyBlob(pub *rsa.PublicKey, blob []byte) ([]byte, error) {
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap key blob: %w", err)
	}
	return ciphertext, nil
}

func encodePrivateKeyPEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemTypePrivateKey,
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func encodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}

func decodePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemTypePrivateKey {
		return nil, cryptoDomain.ErrInvalidKeyFile
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyFile
	}
	return key, nil
}

func decodePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemTypePublicKey {
		return nil, cryptoDomain.ErrInvalidKeyFile
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyFile
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, cryptoDomain.ErrInvalidKeyFile
	}
	return rsaPub, nil
}
