package collection

import (
	"strings"

	"github.com/google/uuid"
)

const idLength = 12

// NewID returns a short random id. The exists callback is consulted until a
// free id comes up, which makes the generator safe against duplicates created
// within the same clock tick.
func NewID(exists func(string) bool) string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
		if exists == nil || !exists(id) {
			return id
		}
	}
}
