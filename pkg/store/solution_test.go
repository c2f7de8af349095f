package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quercusdb/quercus/pkg/rdf"
)

func sampleSolution() *Solution {
	return &Solution{
		Bindings:    []string{"s", "age"},
		NumSelected: 1,
		Rows: [][]rdf.Value{
			{rdf.IRI("http://example.org/b"), rdf.Int(19)},
			{rdf.IRI("http://example.org/a"), rdf.Int(45)},
			{rdf.IRI("http://example.org/a"), rdf.Int(12)},
		},
	}
}

func TestSolution_Get(t *testing.T) {
	sol := sampleSolution()
	assert.Equal(t, rdf.Int(19), sol.Get(0, "age"))
	assert.Equal(t, rdf.IRI("http://example.org/a"), sol.Get(1, "s"))
	assert.Equal(t, rdf.Unbound(), sol.Get(0, "nope"))
}

func TestSolution_Search(t *testing.T) {
	sol := sampleSolution()
	v, ok := sol.Search(0, "s")
	require.True(t, ok)
	assert.Equal(t, rdf.IRI("http://example.org/b"), v)
	_, ok = sol.Search(0, "nope")
	assert.False(t, ok)
}

func TestSolution_Sort(t *testing.T) {
	sol := sampleSolution()
	sorted := sol.Sort()

	// column by column: subject first, then age
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI("http://example.org/a"), rdf.Int(12)},
		{rdf.IRI("http://example.org/a"), rdf.Int(45)},
		{rdf.IRI("http://example.org/b"), rdf.Int(19)},
	}, sorted.Rows)

	// the original is untouched
	assert.Equal(t, rdf.IRI("http://example.org/b"), sol.Rows[0][0])
}
