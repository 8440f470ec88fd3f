package convert

import (
	"fmt"
	"log"

	"github.com/notargets/govtk/archive"
)

// BlockKey groups elements sharing an output cell type and section
// category into one cell block.
type BlockKey struct {
	Cell    CellType
	Section archive.SectionCategory
}

func (k BlockKey) String() string {
	return fmt.Sprintf("%s %s", k.Section, k.Cell)
}

// CellBlock is one contiguous connectivity buffer for elements of one
// BlockKey. Cell order is archive iteration order, not label order.
type CellBlock struct {
	Key          BlockKey
	NodesPerCell int
	Connectivity []int // flat point indices, NodesPerCell per cell
	Labels       []int // element labels parallel to the cells
}

// NumCells returns the number of cells in the block.
func (b *CellBlock) NumCells() int {
	return len(b.Labels)
}

// InstanceMesh is the translated, frame-invariant mesh of one
// instance: a point array, cell blocks keyed by (cell type, section
// category) and the label maps used to place field data. Immutable
// after translation and shared read-only across frames.
type InstanceMesh struct {
	Name       string
	Points     [][3]float64
	NodeIndex  map[int]int // node label -> point index
	Blocks     map[BlockKey]*CellBlock
	BlockOrder []BlockKey  // insertion order
	ElementRow map[int]int // element label -> per-cell data row
	Composite  bool

	NumNodes    int
	NumElements int
}

// Translate converts one instance's node and element sequences into a
// point array and typed cell blocks. Elements with unsupported type
// codes are skipped with a warning and written out of the grid
// entirely. Returns nil when the instance has no supported elements
// at all.
func Translate(inst *archive.Instance, cat ElementCatalog) *InstanceMesh {
	m := &InstanceMesh{
		Name:       inst.Name,
		Points:     make([][3]float64, 0, len(inst.Nodes)),
		NodeIndex:  make(map[int]int, len(inst.Nodes)),
		Blocks:     make(map[BlockKey]*CellBlock),
		ElementRow: make(map[int]int, len(inst.Elements)),
		NumNodes:   len(inst.Nodes),
	}

	for i := range inst.Nodes {
		node := &inst.Nodes[i]
		var p [3]float64
		switch inst.Dimension {
		case archive.ThreeD:
			copy(p[:], node.Coord)
		default:
			// Planar and axisymmetric nodes are lifted to z=0.
			p[0], p[1] = node.Coord[0], node.Coord[1]
		}
		m.NodeIndex[node.Label] = len(m.Points)
		m.Points = append(m.Points, p)
	}

	for i := range inst.Elements {
		el := &inst.Elements[i]
		info, ok := cat.Lookup(el.Type)
		if !ok {
			log.Printf("WARNING: element type %s is not supported; element %d of %s will be ignored",
				el.Type, el.Label, inst.Name)
			continue
		}
		if len(el.Connectivity) != info.Nodes {
			log.Printf("WARNING: element %d of %s has %d nodes, %s expects %d; element will be ignored",
				el.Label, inst.Name, len(el.Connectivity), info.Cell, info.Nodes)
			continue
		}

		conn := make([]int, 0, info.Nodes)
		for _, label := range el.Connectivity {
			idx, ok := m.NodeIndex[label]
			if !ok {
				log.Printf("WARNING: element %d of %s references unknown node %d; element will be ignored",
					el.Label, inst.Name, label)
				conn = nil
				break
			}
			conn = append(conn, idx)
		}
		if conn == nil {
			continue
		}

		key := BlockKey{Cell: info.Cell, Section: archive.ClassifySection(el.Section)}
		block := m.Blocks[key]
		if block == nil {
			block = &CellBlock{Key: key, NodesPerCell: info.Nodes}
			m.Blocks[key] = block
			m.BlockOrder = append(m.BlockOrder, key)
		}
		block.Connectivity = append(block.Connectivity, conn...)
		block.Labels = append(block.Labels, el.Label)
	}

	if len(m.Blocks) == 0 {
		log.Printf("skipping %s (no supported elements found)", inst.Name)
		return nil
	}

	// Per-cell data rows follow the written cell order: blocks in
	// insertion order, cells in archive order within each block.
	row := 0
	for _, key := range m.BlockOrder {
		for _, label := range m.Blocks[key].Labels {
			m.ElementRow[label] = row
			row++
		}
	}
	m.NumElements = row
	return m
}
