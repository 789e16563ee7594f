package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuestPostMessage(t *testing.T) {
	subject, body := GuestPostMessage("Example Blog", "Posts must be 800+ words", "Jane Writer", "jane@agency.com")

	assert.Equal(t, "Guest Post Proposal - Web3 Marketing Content for Example Blog", subject)
	assert.Contains(t, body, "Dear Example Blog Team,")
	assert.Contains(t, body, "I've reviewed your guest post guidelines")
	assert.Contains(t, body, "Jane Writer")
	assert.Contains(t, body, "jane@agency.com")
}

func TestGuestPostMessageWithoutGuidelines(t *testing.T) {
	_, body := GuestPostMessage("Example Blog", "", "Jane Writer", "jane@agency.com")

	assert.NotContains(t, body, "reviewed your guest post guidelines",
		"the acknowledgement line only appears when guidelines were found")
	assert.Contains(t, body, "Dear Example Blog Team,")
}
