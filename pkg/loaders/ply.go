package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/toytracer/pkg/core"
)

var errBadPLY = errors.New("ply: malformed file")

const (
	// maxPLYPrealloc caps capacity taken from header counts; append grows past it
	maxPLYPrealloc = 1 << 20
	// maxPLYListLength bounds the item count of a single list property
	maxPLYListLength = 1 << 16
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the vertex positions and triangle indices of a mesh
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle); polygons are fanned
}

// TriangleCount returns the number of triangles in the mesh
func (d *PLYData) TriangleCount() int {
	return len(d.Faces) / 3
}

// Triangle returns the vertices of triangle i
func (d *PLYData) Triangle(i int) (a, b, c core.Vec3) {
	return d.Vertices[d.Faces[3*i]], d.Vertices[d.Faces[3*i+1]], d.Vertices[d.Faces[3*i+2]]
}

// LoadPLY loads a PLY file and returns its vertex and face data
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY decodes an ASCII or binary PLY stream
func ReadPLY(r io.Reader) (*PLYData, error) {
	br := bufio.NewReader(r)
	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var scan scalarReader
	switch header.Format {
	case "ascii":
		scan = func(string) (float64, error) {
			var v float64
			_, err := fmt.Fscan(br, &v)
			return v, err
		}
	case "binary_little_endian":
		scan = func(dataType string) (float64, error) {
			return readBinaryScalar(br, dataType, binary.LittleEndian)
		}
	case "binary_big_endian":
		scan = func(dataType string) (float64, error) {
			return readBinaryScalar(br, dataType, binary.BigEndian)
		}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	return readPLYBody(header, scan)
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(br *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", errBadPLY)
	}

	var currentElement string
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header ended before end_header", errBadPLY)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad format line", errBadPLY)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad element line", errBadPLY)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported PLY element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// scalarReader reads the next value of the given PLY type
type scalarReader func(dataType string) (float64, error)

func readPLYBody(header *PLYHeader, scan scalarReader) (*PLYData, error) {
	posIndex := [3]int{-1, -1, -1}
	for i, prop := range header.VertexProps {
		switch prop.Name {
		case "x":
			posIndex[0] = i
		case "y":
			posIndex[1] = i
		case "z":
			posIndex[2] = i
		}
	}
	if posIndex[0] < 0 || posIndex[1] < 0 || posIndex[2] < 0 {
		return nil, fmt.Errorf("%w: vertex element lacks x, y or z", errBadPLY)
	}

	data := &PLYData{
		Vertices: make([]core.Vec3, 0, min(header.VertexCount, maxPLYPrealloc)),
		Faces:    make([]int, 0, min(header.FaceCount, maxPLYPrealloc)*3), // Assuming triangular faces
	}

	values := make([]float64, len(header.VertexProps))
	for i := 0; i < header.VertexCount; i++ {
		for j, prop := range header.VertexProps {
			v, err := readProperty(scan, prop)
			if err != nil {
				return nil, fmt.Errorf("failed to read vertex %d: %w", i, err)
			}
			if len(v) > 0 {
				values[j] = v[0]
			}
		}
		data.Vertices = append(data.Vertices, core.NewVec3(values[posIndex[0]], values[posIndex[1]], values[posIndex[2]]))
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			v, err := readProperty(scan, prop)
			if err != nil {
				return nil, fmt.Errorf("failed to read face %d: %w", i, err)
			}
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				continue
			}
			if err := data.appendPolygon(v); err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
		}
	}

	return data, nil
}

// appendPolygon fans a polygon into triangles around its first vertex
func (d *PLYData) appendPolygon(indices []float64) error {
	if len(indices) < 3 {
		return fmt.Errorf("polygon has %d vertices", len(indices))
	}
	idx := make([]int, len(indices))
	for k, f := range indices {
		n := int(f)
		if float64(n) != f || n < 0 || n >= len(d.Vertices) {
			return fmt.Errorf("vertex index %v out of range", f)
		}
		idx[k] = n
	}
	for k := 1; k+1 < len(idx); k++ {
		d.Faces = append(d.Faces, idx[0], idx[k], idx[k+1])
	}
	return nil
}

// readProperty returns one value for a scalar property or all items of a list
func readProperty(scan scalarReader, prop PLYProperty) ([]float64, error) {
	if !prop.IsList {
		v, err := scan(prop.Type)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}

	count, err := scan(prop.ListType)
	if err != nil {
		return nil, err
	}
	if !(count >= 0 && count <= maxPLYListLength) || count != math.Trunc(count) {
		return nil, fmt.Errorf("%w: bad list length %v", errBadPLY, count)
	}
	items := make([]float64, int(count))
	for i := range items {
		if items[i], err = scan(prop.DataType); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// readBinaryScalar reads one value of a PLY scalar type
func readBinaryScalar(r io.Reader, dataType string, order binary.ByteOrder) (float64, error) {
	var buf [8]byte
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported PLY data type: %s", dataType)
	}
	if _, err := io.ReadFull(r, buf[:size]); err != nil {
		return 0, err
	}
	b := buf[:size]

	switch dataType {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(order.Uint32(b))), nil
	default: // double, float64
		return math.Float64frombits(order.Uint64(b)), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type
func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "int32", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}
