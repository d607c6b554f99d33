package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyPrefix groups cache keys by what they hold.
type KeyPrefix string

const (
	PrefixURL       KeyPrefix = "url"      // url:<shortCode> -> mapping
	PrefixOriginal  KeyPrefix = "original" // original:<sha256(originalURL)> -> shortCode
	PrefixRateLimit KeyPrefix = "rate"     // rate:<clientIP>
)

// KeyBuilder builds cache keys, optionally scoped by a namespace.
type KeyBuilder struct {
	namespace string
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// URL is the key of a mapping looked up by short code.
func (k *KeyBuilder) URL(shortCode string) string {
	return k.Build(PrefixURL, shortCode)
}

// OriginalURL is the key of the originalURL -> shortCode reverse mapping.
// Long URLs are hashed to keep keys bounded.
func (k *KeyBuilder) OriginalURL(originalURL string) string {
	return k.Build(PrefixOriginal, hashURL(originalURL))
}

func (k *KeyBuilder) RateLimit(clientIP string) string {
	return k.Build(PrefixRateLimit, clientIP)
}

func hashURL(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}
