package firebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	s := NewBucketStore(nil, "linkup.appspot.com")
	assert.Equal(t,
		"https://storage.googleapis.com/linkup.appspot.com/avatars/7/1700000000000.png",
		s.PublicURL("avatars/7/1700000000000.png"))
}
