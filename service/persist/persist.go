package persist

import (
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"
)

// Address represents a caller or owner identity as supplied by the host
// environment. Signature verification happens upstream; the registry treats
// addresses as opaque case-sensitive strings.
type Address string

func (a Address) String() string {
	return string(a)
}

// Valid returns true if the address is usable as an identity
func (a Address) Valid() bool {
	return strings.TrimSpace(string(a)) != ""
}

// DBID is a unique identifier for a stored record
type DBID string

// GenerateID generates a new unique DBID
func GenerateID() DBID {
	id, err := ksuid.NewRandom()
	if err != nil {
		panic(fmt.Sprintf("error generating id: %s", err))
	}
	return DBID(id.String())
}

func (id DBID) String() string {
	return string(id)
}
