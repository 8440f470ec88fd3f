// Package vtu writes partitioned unstructured-grid collections in the
// VTK XML formats: one .vtpc collection index per frame referencing a
// .vtu UnstructuredGrid file per partition.
package vtu

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DataArray is one named per-point or per-cell array. Values are laid
// out row-major with Components values per tuple.
type DataArray struct {
	Name       string
	Components int
	Values     []float64
}

// Cells is one homogeneous cell block: a VTK cell type code plus a
// flat connectivity buffer of point indices.
type Cells struct {
	Type         int
	NodesPerCell int
	Connectivity []int
}

// NumCells returns the number of cells in the block.
func (c *Cells) NumCells() int {
	if c.NodesPerCell == 0 {
		return 0
	}
	return len(c.Connectivity) / c.NodesPerCell
}

// Partition is one named grid within a collection.
type Partition struct {
	Name      string
	Points    [][3]float64
	Cells     []Cells
	CellData  []DataArray
	PointData []DataArray
}

type collectionIndex struct {
	VTKType  string         `json:"vtk-type"`
	Version  string         `json:"version"`
	Datasets []datasetEntry `json:"datasets"`
}

type datasetEntry struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// WriteCollection writes the partitions of one frame below dir as
// {base}/{base}_{frame}.vtpc plus one .vtu per partition in the
// {base}_{frame}/ data directory. Naming is deterministic so re-runs
// overwrite in place. The index is written to a temporary file and
// renamed, leaving no half-written collection behind on failure.
func WriteCollection(dir, base string, frame int, parts []Partition) (string, error) {
	outDir := filepath.Join(dir, base)
	dataDir := filepath.Join(outDir, fmt.Sprintf("%s_%d", base, frame))
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}

	index := collectionIndex{VTKType: "vtkPartitionedDataSetCollection", Version: "1.0"}
	for i, part := range parts {
		name := fmt.Sprintf("%s_%d_%d.vtu", base, frame, i)
		if err := writeGrid(filepath.Join(dataDir, name), &part); err != nil {
			return "", fmt.Errorf("writing partition %s: %w", part.Name, err)
		}
		index.Datasets = append(index.Datasets, datasetEntry{
			Name: part.Name,
			URI:  filepath.Join(fmt.Sprintf("%s_%d", base, frame), name),
		})
	}

	indexPath := filepath.Join(outDir, fmt.Sprintf("%s_%d.vtpc", base, frame))
	tmp := indexPath + ".tmp"
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return "", err
	}
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err = os.Rename(tmp, indexPath); err != nil {
		return "", err
	}
	return indexPath, nil
}

func writeGrid(path string, part *Partition) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	numCells := 0
	for i := range part.Cells {
		numCells += part.Cells[i].NumCells()
	}

	fmt.Fprintf(file, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(file, "<VTKFile type=\"UnstructuredGrid\" version=\"1.0\" byte_order=\"LittleEndian\">\n")
	fmt.Fprintf(file, "  <UnstructuredGrid>\n")
	fmt.Fprintf(file, "    <Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n",
		len(part.Points), numCells)

	fmt.Fprintf(file, "      <Points>\n")
	fmt.Fprintf(file, "        <DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, p := range part.Points {
		fmt.Fprintf(file, "          %.9g %.9g %.9g\n", p[0], p[1], p[2])
	}
	fmt.Fprintf(file, "        </DataArray>\n")
	fmt.Fprintf(file, "      </Points>\n")

	fmt.Fprintf(file, "      <Cells>\n")
	fmt.Fprintf(file, "        <DataArray type=\"Int64\" Name=\"connectivity\" format=\"ascii\">\n")
	for i := range part.Cells {
		block := &part.Cells[i]
		for c := 0; c < block.NumCells(); c++ {
			fmt.Fprintf(file, "         ")
			for _, idx := range block.Connectivity[c*block.NodesPerCell : (c+1)*block.NodesPerCell] {
				fmt.Fprintf(file, " %d", idx)
			}
			fmt.Fprintf(file, "\n")
		}
	}
	fmt.Fprintf(file, "        </DataArray>\n")
	fmt.Fprintf(file, "        <DataArray type=\"Int64\" Name=\"offsets\" format=\"ascii\">\n")
	offset := 0
	for i := range part.Cells {
		block := &part.Cells[i]
		for c := 0; c < block.NumCells(); c++ {
			offset += block.NodesPerCell
			fmt.Fprintf(file, "          %d\n", offset)
		}
	}
	fmt.Fprintf(file, "        </DataArray>\n")
	fmt.Fprintf(file, "        <DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for i := range part.Cells {
		block := &part.Cells[i]
		for c := 0; c < block.NumCells(); c++ {
			fmt.Fprintf(file, "          %d\n", block.Type)
		}
	}
	fmt.Fprintf(file, "        </DataArray>\n")
	fmt.Fprintf(file, "      </Cells>\n")

	writeDataArrays(file, "PointData", part.PointData)
	writeDataArrays(file, "CellData", part.CellData)

	fmt.Fprintf(file, "    </Piece>\n")
	fmt.Fprintf(file, "  </UnstructuredGrid>\n")
	fmt.Fprintf(file, "</VTKFile>\n")
	return nil
}

func writeDataArrays(file *os.File, section string, arrays []DataArray) {
	if len(arrays) == 0 {
		return
	}
	// 3-component point arrays are vector fields; name one as the
	// active vectors attribute the way the collection writer expects.
	attr := ""
	if section == "PointData" {
		for _, arr := range arrays {
			if arr.Components == 3 {
				attr = fmt.Sprintf(" Vectors=%q", arr.Name)
				break
			}
		}
	}
	fmt.Fprintf(file, "      <%s%s>\n", section, attr)
	for _, arr := range arrays {
		fmt.Fprintf(file, "        <DataArray type=\"Float64\" Name=%q NumberOfComponents=\"%d\" format=\"ascii\">\n",
			arr.Name, arr.Components)
		for i := 0; i < len(arr.Values); i += arr.Components {
			fmt.Fprintf(file, "         ")
			for j := 0; j < arr.Components; j++ {
				fmt.Fprintf(file, " %.9g", arr.Values[i+j])
			}
			fmt.Fprintf(file, "\n")
		}
		fmt.Fprintf(file, "        </DataArray>\n")
	}
	fmt.Fprintf(file, "      </%s>\n", section)
}
