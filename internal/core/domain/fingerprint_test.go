package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_KnownValue(t *testing.T) {
	// SHA-256 of "hello"; pins the on-disk fingerprint format.
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		Fingerprint("hello"))
}

func TestFingerprint_Deterministic(t *testing.T) {
	assert.Equal(t, Fingerprint("some content"), Fingerprint("some content"))
	assert.NotEqual(t, Fingerprint("some content"), Fingerprint("other content"))
}

func TestFingerprint_EmptyContent(t *testing.T) {
	assert.Len(t, Fingerprint(""), 64)
}

func TestIdentityOf_StableAndDistinct(t *testing.T) {
	assert.Equal(t, IdentityOf("docs/a.md"), IdentityOf("docs/a.md"))
	assert.NotEqual(t, IdentityOf("docs/a.md"), IdentityOf("docs/b.md"))
}
