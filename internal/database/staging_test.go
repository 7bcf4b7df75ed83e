package database

import (
	"testing"

	"go-jobmarket-scraper/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStaging(t *testing.T) {
	s := newStaging()

	s.add(models.JobRecord{JobLink: "a"})
	s.add(models.JobRecord{JobLink: "b"})
	s.add(models.JobRecord{JobLink: "a", Title: "dup"})
	assert.Equal(t, 2, s.size())
	assert.True(t, s.has("a"))
	assert.False(t, s.has("c"))

	snap := s.snapshot()
	assert.Equal(t, []string{"a", "b"}, []string{snap[0].JobLink, snap[1].JobLink})
	assert.Empty(t, snap[0].Title, "first staged record wins")

	// a record added after the snapshot survives the commit
	s.add(models.JobRecord{JobLink: "c"})
	s.commit(len(snap))
	assert.Equal(t, 1, s.size())
	assert.False(t, s.has("a"))
	assert.True(t, s.has("c"))

	s.commit(10)
	assert.Equal(t, 0, s.size())
}
