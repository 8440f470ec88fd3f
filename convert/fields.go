package convert

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/govtk/archive"
	"github.com/notargets/govtk/vtu"
)

// DataKind says where an extracted buffer belongs in the output grid.
type DataKind int

const (
	CellData DataKind = iota
	PointData
)

// Extractor resolves result locations and fills per-node or per-cell
// buffers for one instance. The mesh is shared read-only; buffers are
// allocated per field and handed off to the frame assembler.
type Extractor struct {
	Mesh      *InstanceMesh
	Composite bool
}

// Extract pulls one field's values for the extractor's instance.
// Returns a nil array when the field has nothing for this instance or
// must be skipped; skips are logged, never fatal.
func (e *Extractor) Extract(field *archive.FieldOutput) (*vtu.DataArray, DataKind, error) {
	sub := field.SubsetInstance(e.Mesh.Name)
	if len(sub.Locations) == 0 {
		return nil, 0, nil
	}

	switch {
	case field.Type == archive.Scalar:
		return e.extractScalar(sub)
	case field.Type == archive.Vector:
		arr, err := e.extractVector(sub)
		return arr, PointData, err
	case field.Type.Tensor():
		// Tensor component extraction is an open extension point.
		log.Printf("field %s is a tensor field; tensor extraction is not implemented, skipping", field.Name)
		return nil, 0, nil
	default:
		log.Printf("field %s has unsupported data type (%s), skipping", field.Name, field.Type)
		return nil, 0, nil
	}
}

// extractScalar resolves the result location, extrapolates
// integration-point data to nodes with per-node averaging, and applies
// the composite envelope when the instance is all-composite.
func (e *Extractor) extractScalar(field *archive.FieldOutput) (*vtu.DataArray, DataKind, error) {
	var (
		requiresExtrapolation bool
		location              archive.Location
	)
	for _, loc := range field.Locations {
		switch loc.Position {
		case archive.WholeElement, archive.Nodal:
			location = loc
		case archive.IntegrationPoint:
			location = loc
			requiresExtrapolation = true
		default:
			log.Printf("unsupported field output position for %s %s (%s), skipping",
				field.Name, e.Mesh.Name, loc.Position)
			return nil, 0, nil
		}
	}

	sub := field
	if requiresExtrapolation {
		// Integration-point data must be read at the element-nodal
		// position and averaged over the contributing elements.
		sub = sub.SubsetPosition(archive.ElementNodal)
	} else {
		sub = sub.SubsetPosition(location.Position)
	}

	if e.Composite && requiresExtrapolation && len(location.SectionPoints) > 0 {
		env := make([]*archive.FieldOutput, 0, len(location.SectionPoints))
		for _, sp := range location.SectionPoints {
			// Absolute values first, then the element-wise maximum:
			// the envelope is the worst-case magnitude through the
			// thickness.
			env = append(env, sub.SubsetSectionPoint(sp.Number).Abs())
		}
		var err error
		if sub, err = archive.MaxEnvelope(env); err != nil {
			return nil, 0, fmt.Errorf("composite envelope for %s %s: %w", field.Name, e.Mesh.Name, err)
		}
	}

	if location.Position == archive.WholeElement {
		arr, err := e.fillCellBuffer(field.Name, sub)
		return arr, CellData, err
	}
	arr, err := e.fillPointBuffer(field.Name, sub, requiresExtrapolation)
	return arr, PointData, err
}

// fillCellBuffer places whole-element values by element label through
// the translator's row map.
func (e *Extractor) fillCellBuffer(name string, field *archive.FieldOutput) (*vtu.DataArray, error) {
	buffer := make([]float64, e.Mesh.NumElements)
	for ib, block := range field.Blocks {
		if block.Width != 1 {
			log.Printf("unsupported field width for %s %s (block %d, %d), skipping",
				name, e.Mesh.Name, ib, block.Width)
			return nil, nil
		}
		for i, label := range block.ElementLabels {
			row, ok := e.Mesh.ElementRow[label]
			if !ok {
				log.Printf("WARNING: %s block %d of %s references unknown element %d, value dropped",
					name, ib, e.Mesh.Name, label)
				continue
			}
			buffer[row] = block.Value(i)
		}
	}
	return &vtu.DataArray{Name: name, Components: 1, Values: buffer}, nil
}

// fillPointBuffer accumulates node-positioned values. Element-nodal
// data carries one row per element-node incidence; the running sums
// are divided by the contribution counts to finish the extrapolation.
func (e *Extractor) fillPointBuffer(name string, field *archive.FieldOutput, average bool) (*vtu.DataArray, error) {
	buffer := make([]float64, e.Mesh.NumNodes)
	counts := make([]float64, e.Mesh.NumNodes)
	for ib, block := range field.Blocks {
		if block.Width != 1 {
			log.Printf("unsupported field width for %s %s (block %d, %d), skipping",
				name, e.Mesh.Name, ib, block.Width)
			return nil, nil
		}
		for i, label := range block.NodeLabels {
			idx, ok := e.Mesh.NodeIndex[label]
			if !ok {
				log.Printf("WARNING: %s block %d of %s references unknown node %d, value dropped",
					name, ib, e.Mesh.Name, label)
				continue
			}
			buffer[idx] += block.Value(i)
			counts[idx]++
		}
	}
	if average {
		// Untouched nodes keep their zero; clamp their counts so the
		// division leaves 0 rather than NaN.
		for i := range counts {
			if counts[i] == 0 {
				counts[i] = 1
			}
		}
		floats.Div(buffer, counts)
	}
	return &vtu.DataArray{Name: name, Components: 1, Values: buffer}, nil
}

// extractVector reads 2- or 3-component nodal data in archive
// component order, zero-padding planar vectors to three components.
func (e *Extractor) extractVector(field *archive.FieldOutput) (*vtu.DataArray, error) {
	buffer := make([]float64, e.Mesh.NumNodes*3)
	for ib, block := range field.Blocks {
		width := block.Width
		if width != 2 && width != 3 {
			log.Printf("unsupported field width for %s %s (block %d, %d), skipping",
				field.Name, e.Mesh.Name, ib, width)
			return nil, nil
		}
		for i, label := range block.NodeLabels {
			idx, ok := e.Mesh.NodeIndex[label]
			if !ok {
				log.Printf("WARNING: %s block %d of %s references unknown node %d, value dropped",
					field.Name, ib, e.Mesh.Name, label)
				continue
			}
			for j := 0; j < width; j++ {
				buffer[idx*3+j] = block.Value(i*width + j)
			}
		}
	}
	return &vtu.DataArray{Name: field.Name, Components: 3, Values: buffer}, nil
}
