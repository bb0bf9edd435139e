package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the content fingerprint: the lowercase hex SHA-256
// of the content as it will be embedded, i.e. after admission. Two
// documents with byte-identical admitted content always produce the
// same fingerprint.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// IdentityOf returns the stable identity for a document: the lowercase
// hex SHA-256 of its slash-form path relative to the corpus root. The
// identity survives content edits; only a move or rename changes it.
func IdentityOf(relPath string) string {
	sum := sha256.Sum256([]byte(relPath))
	return hex.EncodeToString(sum[:])
}
