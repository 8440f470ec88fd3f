package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/govtk/archive"
)

func quadExtractor(t *testing.T) *Extractor {
	t.Helper()
	m := Translate(quadInstance(), NewElementCatalog())
	require.NotNil(t, m)
	return &Extractor{Mesh: m}
}

func TestExtractWholeElement(t *testing.T) {
	ex := quadExtractor(t)
	field := &archive.FieldOutput{
		Name:      "EVOL",
		Type:      archive.Scalar,
		Locations: []archive.Location{{Position: archive.WholeElement}},
		Blocks: []*archive.BulkData{{
			Instance:      "PLATE-1",
			Position:      archive.WholeElement,
			Precision:     archive.DoublePrecision,
			Width:         1,
			ElementLabels: []int{2, 1},
			Double:        []float64{20, 10},
		}},
	}

	arr, kind, err := ex.Extract(field)
	require.NoError(t, err)
	require.NotNil(t, arr)
	assert.Equal(t, CellData, kind)
	// Values land on the element's archive-sequence row, not block order
	assert.Equal(t, []float64{10, 20}, arr.Values)
}

func TestExtractNodalAveraging(t *testing.T) {
	ex := quadExtractor(t)
	// Element-nodal data for both quads; shared nodes accumulate
	// contributions from each touching element
	field := &archive.FieldOutput{
		Name:      "PEEQ",
		Type:      archive.Scalar,
		Locations: []archive.Location{{Position: archive.IntegrationPoint}},
		Blocks: []*archive.BulkData{
			{
				Instance:   "PLATE-1",
				Position:   archive.ElementNodal,
				Precision:  archive.DoublePrecision,
				Width:      1,
				NodeLabels: []int{10, 20, 30, 40},
				Double:     []float64{1, 2, 3, 4},
			},
			{
				Instance:   "PLATE-1",
				Position:   archive.ElementNodal,
				Precision:  archive.SinglePrecision,
				Width:      1,
				NodeLabels: []int{20, 50, 60, 30},
				Single:     []float32{4, 5, 6, 7},
			},
		},
	}

	arr, kind, err := ex.Extract(field)
	require.NoError(t, err)
	require.NotNil(t, arr)
	assert.Equal(t, PointData, kind)
	// Shared nodes 20 and 30 average their two contributions
	assert.Equal(t, []float64{1, 3, 5, 4, 5, 6}, arr.Values)
}

func TestExtractAveragingIsSumOverCount(t *testing.T) {
	// A node touched by three elements each contributing v must come
	// out as exactly v, not 3v
	inst := &archive.Instance{
		Name:      "FAN-1",
		Dimension: archive.TwoDPlanar,
		Nodes: []archive.Node{
			{Label: 1, Coord: []float64{0, 0}},
			{Label: 2, Coord: []float64{1, 0}},
			{Label: 3, Coord: []float64{1, 1}},
			{Label: 4, Coord: []float64{0, 1}},
			{Label: 5, Coord: []float64{-1, 1}},
		},
		Elements: []archive.Element{
			{Label: 1, Type: "CPS3", Section: "solid section", Connectivity: []int{1, 2, 3}},
			{Label: 2, Type: "CPS3", Section: "solid section", Connectivity: []int{1, 3, 4}},
			{Label: 3, Type: "CPS3", Section: "solid section", Connectivity: []int{1, 4, 5}},
		},
	}
	m := Translate(inst, NewElementCatalog())
	require.NotNil(t, m)
	ex := &Extractor{Mesh: m}

	const v = 42.5
	blocks := []*archive.BulkData{}
	for _, conn := range [][]int{{1, 2, 3}, {1, 3, 4}, {1, 4, 5}} {
		blocks = append(blocks, &archive.BulkData{
			Instance:   "FAN-1",
			Position:   archive.ElementNodal,
			Precision:  archive.DoublePrecision,
			Width:      1,
			NodeLabels: conn,
			Double:     []float64{v, v, v},
		})
	}
	field := &archive.FieldOutput{
		Name:      "S.Mises",
		Type:      archive.Scalar,
		Locations: []archive.Location{{Position: archive.IntegrationPoint}},
		Blocks:    blocks,
	}

	arr, _, err := ex.Extract(field)
	require.NoError(t, err)
	require.NotNil(t, arr)
	for i, got := range arr.Values {
		assert.InDelta(t, v, got, 1e-12, "node row %d", i)
	}
}

func TestExtractCompositeEnvelope(t *testing.T) {
	inst := &archive.Instance{
		Name:      "LAMINATE-1",
		Dimension: archive.ThreeD,
		Nodes: []archive.Node{
			{Label: 1, Coord: []float64{0, 0, 0}},
			{Label: 2, Coord: []float64{1, 0, 0}},
			{Label: 3, Coord: []float64{1, 1, 0}},
		},
		Elements: []archive.Element{
			{Label: 1, Type: "S3", Section: "shell < composite > section",
				Connectivity: []int{1, 2, 3}},
		},
	}
	m := Translate(inst, NewElementCatalog())
	require.NotNil(t, m)
	ex := &Extractor{Mesh: m, Composite: true}

	spBlock := func(sp int, values []float64) *archive.BulkData {
		return &archive.BulkData{
			Instance:     "LAMINATE-1",
			Position:     archive.ElementNodal,
			SectionPoint: sp,
			Precision:    archive.DoublePrecision,
			Width:        1,
			NodeLabels:   []int{1, 2, 3},
			Double:       values,
		}
	}
	field := &archive.FieldOutput{
		Name: "S.S11",
		Type: archive.Scalar,
		Locations: []archive.Location{{
			Position: archive.IntegrationPoint,
			SectionPoints: []archive.SectionPoint{
				{Number: 1}, {Number: 2}, {Number: 3},
			},
		}},
		Blocks: []*archive.BulkData{
			spBlock(1, []float64{-5, 1, 0}),
			spBlock(2, []float64{2, -2, 1}),
			spBlock(3, []float64{-8, 0, -3}),
		},
	}

	arr, kind, err := ex.Extract(field)
	require.NoError(t, err)
	require.NotNil(t, arr)
	assert.Equal(t, PointData, kind)
	// Worst-case magnitude: abs before max, so node 1 is 8, never -8 or 2
	assert.Equal(t, []float64{8, 2, 3}, arr.Values)
}

func TestExtractVector(t *testing.T) {
	ex := quadExtractor(t)
	field := &archive.FieldOutput{
		Name:      "U",
		Type:      archive.Vector,
		Locations: []archive.Location{{Position: archive.Nodal}},
		Blocks: []*archive.BulkData{{
			Instance:   "PLATE-1",
			Position:   archive.Nodal,
			Precision:  archive.SinglePrecision,
			Width:      2,
			NodeLabels: []int{10, 20},
			Single:     []float32{1, 2, 3, 4},
		}},
	}

	arr, kind, err := ex.Extract(field)
	require.NoError(t, err)
	require.NotNil(t, arr)
	assert.Equal(t, PointData, kind)
	assert.Equal(t, 3, arr.Components)
	require.Len(t, arr.Values, ex.Mesh.NumNodes*3)
	// Planar vectors are zero-padded to three components
	assert.Equal(t, []float64{1, 2, 0}, arr.Values[0:3])
	assert.Equal(t, []float64{3, 4, 0}, arr.Values[3:6])
}

func TestExtractSkips(t *testing.T) {
	ex := quadExtractor(t)

	{ // Tensor extraction is an explicit unimplemented extension
		field := &archive.FieldOutput{
			Name:      "S",
			Type:      archive.TensorPlanar,
			Locations: []archive.Location{{Position: archive.IntegrationPoint}},
			Blocks: []*archive.BulkData{{
				Instance: "PLATE-1", Position: archive.ElementNodal,
				Precision: archive.DoublePrecision, Width: 4,
				NodeLabels: []int{10}, Double: []float64{1, 2, 3, 4},
			}},
		}
		arr, _, err := ex.Extract(field)
		require.NoError(t, err)
		assert.Nil(t, arr)
	}
	{ // Scalar with a bad width is skipped, not fatal
		field := &archive.FieldOutput{
			Name:      "BAD",
			Type:      archive.Scalar,
			Locations: []archive.Location{{Position: archive.Nodal}},
			Blocks: []*archive.BulkData{{
				Instance: "PLATE-1", Position: archive.Nodal,
				Precision: archive.DoublePrecision, Width: 3,
				NodeLabels: []int{10}, Double: []float64{1, 2, 3},
			}},
		}
		arr, _, err := ex.Extract(field)
		require.NoError(t, err)
		assert.Nil(t, arr)
	}
	{ // Nothing for this instance at all
		field := &archive.FieldOutput{
			Name:      "S",
			Type:      archive.Scalar,
			Locations: []archive.Location{{Position: archive.Nodal}},
			Blocks: []*archive.BulkData{{
				Instance: "OTHER-1", Position: archive.Nodal,
				Precision: archive.DoublePrecision, Width: 1,
				NodeLabels: []int{1}, Double: []float64{1},
			}},
		}
		arr, _, err := ex.Extract(field)
		require.NoError(t, err)
		assert.Nil(t, arr)
	}
	{ // Unsupported result position is skipped with a warning
		field := &archive.FieldOutput{
			Name:      "S",
			Type:      archive.Scalar,
			Locations: []archive.Location{{Position: archive.Centroid}},
			Blocks: []*archive.BulkData{{
				Instance: "PLATE-1", Position: archive.Centroid,
				Precision: archive.DoublePrecision, Width: 1,
				ElementLabels: []int{1}, Double: []float64{1},
			}},
		}
		arr, _, err := ex.Extract(field)
		require.NoError(t, err)
		assert.Nil(t, arr)
	}
}

func TestExtractPlainNodal(t *testing.T) {
	ex := quadExtractor(t)
	field := &archive.FieldOutput{
		Name:      "NT11",
		Type:      archive.Scalar,
		Locations: []archive.Location{{Position: archive.Nodal}},
		Blocks: []*archive.BulkData{{
			Instance:   "PLATE-1",
			Position:   archive.Nodal,
			Precision:  archive.DoublePrecision,
			Width:      1,
			NodeLabels: []int{10, 20, 30, 40, 50, 60},
			Double:     []float64{10, 20, 30, 40, 50, 60},
		}},
	}

	arr, kind, err := ex.Extract(field)
	require.NoError(t, err)
	require.NotNil(t, arr)
	assert.Equal(t, PointData, kind)
	// No averaging for true nodal data
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60}, arr.Values)
}
