package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/job"
)

func TestParse_RoundTripsNames(t *testing.T) {
	for _, j := range append(job.Distributable, job.Manual) {
		parsed, err := job.Parse(j.String())
		require.NoError(t, err)
		assert.Equal(t, j, parsed)
	}
}

func TestParse_AcceptsLowercaseAndSpelling(t *testing.T) {
	parsed, err := job.Parse(" defence ")
	require.NoError(t, err)
	assert.Equal(t, job.Defense, parsed)
}

func TestParse_RejectsUnknown(t *testing.T) {
	_, err := job.Parse("farming")
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	assert.True(t, job.Production.IsFairnessGoverned())
	assert.True(t, job.Defense.IsFairnessGoverned())
	assert.False(t, job.Construction.IsFairnessGoverned())

	assert.True(t, job.Logistics.IsQueued())
	assert.False(t, job.Idle.IsQueued())
	assert.False(t, job.Manual.IsQueued())

	assert.False(t, job.Type(42).IsValid())
	assert.Equal(t, "JOB(42)", job.Type(42).String())
}
