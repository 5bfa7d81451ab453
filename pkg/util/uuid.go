package util

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/google/uuid"
)

// Md5ThenHex is the hex md5 digest logged next to every payload that is
// embedded or extracted, so the two ends can be compared with md5sum
func Md5ThenHex(value []byte) string {
	sum := md5.Sum(value)
	return hex.EncodeToString(sum[:])
}

// PayloadID derives a stable UUID from payload bytes so the encode and decode
// log lines of the same payload can be matched up
func PayloadID(payload []byte) string {
	sum := md5.Sum(payload)
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		return ""
	}
	return id.String()
}
