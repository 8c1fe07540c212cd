package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordFingerprint(t *testing.T) {
	u := &User{Password: "$2a$10$abcdefghijklmnopqrstuv"}

	fp := u.PasswordFingerprint()
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, u.PasswordFingerprint(), "fingerprint must be stable for a fixed hash")

	u.Password = "$2a$10$completely-different-hash"
	assert.NotEqual(t, fp, u.PasswordFingerprint(), "fingerprint must change with the hash")
}

func TestHasAccess(t *testing.T) {
	u := &User{Accesses: StringArray{"user", "admin"}}

	assert.True(t, u.HasAccess(AccessUser))
	assert.True(t, u.HasAccess(AccessAdmin))
	assert.True(t, u.IsAdmin())
	assert.False(t, u.HasAccess(AccessMod))

	u.Accesses = nil
	assert.False(t, u.HasAccess(AccessUser))
}

func TestStringArrayScanAndValue(t *testing.T) {
	var sa StringArray
	assert.NoError(t, sa.Scan([]byte("{user,admin}")))
	assert.Equal(t, StringArray{"user", "admin"}, sa)

	assert.NoError(t, sa.Scan("{}"))
	assert.Empty(t, sa)

	assert.NoError(t, sa.Scan(nil))
	assert.Empty(t, sa)

	v, err := StringArray{"a", "b"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, "{a,b}", v)

	v, err = StringArray(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "{}", v)
}
