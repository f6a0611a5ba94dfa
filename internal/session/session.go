// Package session generates the client identifier that ties asynchronous
// submit and poll calls to one logical stream on the inference service.
package session

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// Prefix starts every identifier.
	Prefix = "client_"
	// Length is the number of random characters after the prefix.
	Length = 10
)

var pattern = regexp.MustCompile(`^client_[a-z0-9]{10}$`)

// ID is an opaque session identifier. Uniqueness is only as strong as the
// random source behind it.
type ID string

// New returns a fresh identifier built from a random UUID.
func New() ID {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ID(Prefix + hex[:Length])
}

// Valid reports whether s has the shape New produces.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

func (id ID) String() string {
	return string(id)
}
