package convert

import (
	"fmt"
	"log"
	"sort"

	"github.com/notargets/govtk/archive"
	"github.com/notargets/govtk/vtu"
)

// Options tune a conversion run.
type Options struct {
	// DedupFields removes duplicate field matches produced by
	// overlapping request patterns so no output array is written
	// twice.
	DedupFields bool
	// OutputDir is the directory the per-frame collections are
	// written under; empty means the current directory.
	OutputDir string
}

// Converter drives one conversion run: match, translate once, then
// extract and write frame by frame. All mutable extraction state is
// owned by the run; frames are processed strictly sequentially and
// field buffers are rebuilt per frame to bound memory.
type Converter struct {
	request *OutputRequest
	catalog ElementCatalog
	opts    Options

	meshes    map[string]*InstanceMesh
	meshOrder []string
}

// NewConverter builds a converter for one request.
func NewConverter(request *OutputRequest, opts Options) *Converter {
	return &Converter{
		request: request,
		catalog: NewElementCatalog(),
		opts:    opts,
		meshes:  make(map[string]*InstanceMesh),
	}
}

// Convert runs the whole conversion against a loaded model, writing
// one partitioned collection per matched frame named after base.
// Frames already written stay on disk if a later frame fails.
func (c *Converter) Convert(model *archive.Model, base string) error {
	avail := model.FieldSummary(c.request.Frames)
	instances := model.InstanceSummary()

	matches, err := Match(avail, c.request, c.opts.DedupFields)
	if err != nil {
		return err
	}

	c.convertMesh(model, instances)
	if len(c.meshes) == 0 {
		return fmt.Errorf("no convertible instances in %s", model.Name)
	}

	fmt.Println("Started field data conversion.")
	for _, fr := range c.request.Frames {
		sel := matches[fr.Step]
		step := model.Step(fr.Step)
		for _, ff := range sel.Fields {
			fmt.Printf("Converting field data for %s frame %d:\n", fr.Step, ff.Frame)
			frame := step.Frame(ff.Frame)
			parts := c.assembleFrame(model, frame, ff.Fields)
			path, err := vtu.WriteCollection(c.opts.OutputDir, base, frame.ID, parts)
			if err != nil {
				return fmt.Errorf("writing frame %d: %w", frame.ID, err)
			}
			fmt.Printf("    - Wrote %s\n", path)
		}
	}
	fmt.Println("Completed field data conversion.")
	return nil
}

// convertMesh translates every supported, requested instance once.
// The translated meshes are reused read-only by every frame.
func (c *Converter) convertMesh(model *archive.Model, instances map[string]archive.InstanceInfo) {
	for _, inst := range model.Instances {
		if !c.request.Instances.Match(inst.Name) {
			continue
		}
		info := instances[inst.Name]
		if !info.Supported {
			log.Printf("instance %s is not supported and will be ignored: "+
				"its sections mix composite and non-composite categories %s",
				inst.Name, info.SectionSet())
			continue
		}

		fmt.Printf("Converting mesh data for %s...  ", inst.Name)
		mesh := Translate(inst, c.catalog)
		if mesh == nil {
			continue
		}
		mesh.Composite = info.Composite
		c.meshes[inst.Name] = mesh
		c.meshOrder = append(c.meshOrder, inst.Name)
		fmt.Println("done")
	}
	sort.Strings(c.meshOrder)
}

// assembleFrame extracts the selected fields for every translated
// instance and packs one partition per instance. Buffers live only
// until the frame is written.
func (c *Converter) assembleFrame(model *archive.Model, frame *archive.Frame, fields []string) []vtu.Partition {
	parts := make([]vtu.Partition, 0, len(c.meshes))
	for _, name := range c.meshOrder {
		mesh := c.meshes[name]
		ex := &Extractor{Mesh: mesh, Composite: mesh.Composite}

		var cellData, pointData []vtu.DataArray
		for _, fieldName := range fields {
			field := frame.Field(fieldName)
			if field == nil {
				continue
			}
			arr, kind, err := ex.Extract(field)
			if err != nil {
				log.Printf("WARNING: extracting %s for %s: %v", fieldName, name, err)
				continue
			}
			if arr == nil {
				continue
			}
			if kind == CellData {
				cellData = append(cellData, *arr)
			} else {
				pointData = append(pointData, *arr)
			}
		}

		part := vtu.Partition{
			Name:      name,
			Points:    mesh.Points,
			CellData:  cellData,
			PointData: pointData,
		}
		for _, key := range mesh.BlockOrder {
			block := mesh.Blocks[key]
			part.Cells = append(part.Cells, vtu.Cells{
				Type:         int(key.Cell),
				NodesPerCell: block.NodesPerCell,
				Connectivity: block.Connectivity,
			})
		}
		parts = append(parts, part)
	}
	return parts
}
