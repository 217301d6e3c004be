package domain_test

import (
	"testing"

	"go-jobmatch-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "rejected"} {
		got, err := domain.ParseStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, s, string(got))
	}

	for _, s := range []string{"", "PENDING", "reviewed", "unknown"} {
		_, err := domain.ParseStatus(s)
		assert.Error(t, err, "ParseStatus(%q) should fail", s)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.True(t, domain.StatusAccepted.IsTerminal())
	assert.True(t, domain.StatusRejected.IsTerminal())
}

func TestParsePriority(t *testing.T) {
	for _, s := range []string{"low", "medium", "high"} {
		got, err := domain.ParsePriority(s)
		assert.NoError(t, err)
		assert.Equal(t, s, string(got))
	}

	_, err := domain.ParsePriority("urgent")
	assert.Error(t, err)
}
