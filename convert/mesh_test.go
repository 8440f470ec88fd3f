package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/govtk/archive"
)

func quadInstance() *archive.Instance {
	// Two CPS4 quads sharing an edge, labels deliberately sparse
	return &archive.Instance{
		Name:      "PLATE-1",
		Dimension: archive.TwoDPlanar,
		Nodes: []archive.Node{
			{Label: 10, Coord: []float64{0, 0}},
			{Label: 20, Coord: []float64{1, 0}},
			{Label: 30, Coord: []float64{1, 1}},
			{Label: 40, Coord: []float64{0, 1}},
			{Label: 50, Coord: []float64{2, 0}},
			{Label: 60, Coord: []float64{2, 1}},
		},
		Elements: []archive.Element{
			{Label: 1, Type: "CPS4R", Section: "solid section",
				Connectivity: []int{10, 20, 30, 40}},
			{Label: 2, Type: "CPS4R", Section: "solid section",
				Connectivity: []int{20, 50, 60, 30}},
		},
	}
}

func TestTranslateQuads(t *testing.T) {
	inst := quadInstance()
	m := Translate(inst, NewElementCatalog())
	require.NotNil(t, m)

	// One point per node, planar nodes lifted to z=0
	require.Len(t, m.Points, len(inst.Nodes))
	for _, p := range m.Points {
		assert.Equal(t, 0.0, p[2])
	}

	// Every connectivity index addresses a real point
	require.Len(t, m.BlockOrder, 1)
	block := m.Blocks[m.BlockOrder[0]]
	assert.Equal(t, Quad, block.Key.Cell)
	assert.Equal(t, archive.SectionSolid, block.Key.Section)
	assert.Equal(t, 2, block.NumCells())
	for _, idx := range block.Connectivity {
		assert.Less(t, idx, len(m.Points))
		assert.GreaterOrEqual(t, idx, 0)
	}

	// Label maps are the only way rows are addressed
	assert.Equal(t, 0, m.NodeIndex[10])
	assert.Equal(t, 4, m.NodeIndex[50])
	assert.Equal(t, 0, m.ElementRow[1])
	assert.Equal(t, 1, m.ElementRow[2])

	// Connectivity is remapped through the node map
	assert.Equal(t, []int{0, 1, 2, 3, 1, 4, 5, 2}, block.Connectivity)
}

func TestTranslate3D(t *testing.T) {
	inst := &archive.Instance{
		Name:      "CUBE-1",
		Dimension: archive.ThreeD,
		Nodes: []archive.Node{
			{Label: 1, Coord: []float64{0, 0, 0}},
			{Label: 2, Coord: []float64{1, 0, 0}},
			{Label: 3, Coord: []float64{0, 1, 0}},
			{Label: 4, Coord: []float64{0, 0, 2}},
		},
		Elements: []archive.Element{
			{Label: 7, Type: "C3D4", Section: "solid section",
				Connectivity: []int{1, 2, 3, 4}},
		},
	}
	m := Translate(inst, NewElementCatalog())
	require.NotNil(t, m)
	assert.Equal(t, [3]float64{0, 0, 2}, m.Points[3])

	block := m.Blocks[BlockKey{Cell: Tetra, Section: archive.SectionSolid}]
	require.NotNil(t, block)
	assert.Equal(t, []int{0, 1, 2, 3}, block.Connectivity)
}

func TestTranslateSkipsUnsupported(t *testing.T) {
	inst := quadInstance()
	inst.Elements = append(inst.Elements, archive.Element{
		Label: 3, Type: "B31", Section: "beam section",
		Connectivity: []int{10, 20},
	})

	m := Translate(inst, NewElementCatalog())
	require.NotNil(t, m)

	// The unsupported beam is omitted, the quads survive
	require.Len(t, m.BlockOrder, 1)
	assert.Equal(t, 2, m.Blocks[m.BlockOrder[0]].NumCells())
	assert.Equal(t, 2, m.NumElements)
	_, ok := m.ElementRow[3]
	assert.False(t, ok)
}

func TestTranslateNothingSupported(t *testing.T) {
	inst := &archive.Instance{
		Name:      "TRUSS-1",
		Dimension: archive.ThreeD,
		Nodes: []archive.Node{
			{Label: 1, Coord: []float64{0, 0, 0}},
			{Label: 2, Coord: []float64{1, 0, 0}},
		},
		Elements: []archive.Element{
			{Label: 1, Type: "T3D2", Section: "beam section", Connectivity: []int{1, 2}},
		},
	}
	assert.Nil(t, Translate(inst, NewElementCatalog()))
}

func TestTranslateBlockKeys(t *testing.T) {
	// Shell triangles and quads in one instance split into two blocks
	inst := &archive.Instance{
		Name:      "SKIN-1",
		Dimension: archive.ThreeD,
		Nodes: []archive.Node{
			{Label: 1, Coord: []float64{0, 0, 0}},
			{Label: 2, Coord: []float64{1, 0, 0}},
			{Label: 3, Coord: []float64{1, 1, 0}},
			{Label: 4, Coord: []float64{0, 1, 0}},
		},
		Elements: []archive.Element{
			{Label: 1, Type: "S3", Section: "shell section", Connectivity: []int{1, 2, 3}},
			{Label: 2, Type: "S4R", Section: "shell section", Connectivity: []int{1, 2, 3, 4}},
			{Label: 3, Type: "S3", Section: "shell section", Connectivity: []int{1, 3, 4}},
		},
	}
	m := Translate(inst, NewElementCatalog())
	require.NotNil(t, m)
	require.Len(t, m.BlockOrder, 2)

	tri := m.Blocks[BlockKey{Cell: Triangle, Section: archive.SectionShell}]
	quad := m.Blocks[BlockKey{Cell: Quad, Section: archive.SectionShell}]
	require.NotNil(t, tri)
	require.NotNil(t, quad)
	assert.Equal(t, 2, tri.NumCells())
	assert.Equal(t, []int{1, 3}, tri.Labels)
	assert.Equal(t, 1, quad.NumCells())

	// Per-cell rows follow block order, not archive order: both
	// triangles come before the quad
	assert.Equal(t, 3, m.NumElements)
	assert.Equal(t, 0, m.ElementRow[1])
	assert.Equal(t, 1, m.ElementRow[3])
	assert.Equal(t, 2, m.ElementRow[2])
}
