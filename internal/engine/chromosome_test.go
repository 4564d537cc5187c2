package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChromosomeCloneDeepCopiesGenes(t *testing.T) {
	original := &Chromosome{
		Genes: []Gene{
			{ClassID: "class-1", SubjectID: "sub-1", FacultyID: "fac-1", TimeSlotID: "slot-1"},
		},
		Fitness: 42,
	}

	clone := original.Clone()
	clone.Genes[0].FacultyID = "fac-2"
	clone.Fitness = -1

	assert.Equal(t, "fac-1", original.Genes[0].FacultyID)
	assert.Equal(t, float64(42), original.Fitness)
	assert.Equal(t, "fac-2", clone.Genes[0].FacultyID)
}

func TestChromosomeCloneIndependentSlice(t *testing.T) {
	original := &Chromosome{Genes: []Gene{{ClassID: "class-1"}, {ClassID: "class-2"}}}
	clone := original.Clone()
	clone.Genes = append(clone.Genes, Gene{ClassID: "class-3"})

	assert.Len(t, original.Genes, 2)
	assert.Len(t, clone.Genes, 3)
}
