package meshio

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"graph_scene/pkg/geom"
)

const (
	magicBytes   = "GRAPHMSH"
	version      = uint32(1)
	maxMeshes    = 1_000_000
	maxPositions = 10_000_000
	maxString    = 1 << 16
)

// fileHeader is the binary header.
type fileHeader struct {
	Magic     [8]byte
	Version   uint32
	NumMeshes uint32
}

// meshHeader precedes each mesh's key, label and buffers.
type meshHeader struct {
	Kind         uint32
	Color        uint32
	Layers       uint32
	NumPositions uint32
	NumIndices   uint32
	Anchor       [3]float64
	Matrix       [16]float64
}

// WriteFile serializes s to path. The file is written to a temporary
// sibling and renamed into place.
func WriteFile(path string, s *Scene) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	if err := Write(f, s); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Write serializes s to w followed by a CRC32 trailer.
func Write(out io.Writer, s *Scene) error {
	crcWriter := crc32Writer{w: out, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{Version: version, NumMeshes: uint32(len(s.Meshes))}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range s.Meshes {
		if err := writeMesh(w, &s.Meshes[i]); err != nil {
			return fmt.Errorf("write mesh %d: %w", i, err)
		}
	}

	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(out, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	return nil
}

func writeMesh(w io.Writer, m *Mesh) error {
	b := m.Buffer
	if b == nil {
		b = &geom.Buffer{}
	}
	if len(b.Normals) != len(b.Positions) || len(b.UVs) != len(b.Positions) {
		return fmt.Errorf("%s: attribute lengths differ: %d positions, %d normals, %d uvs",
			m.Key, len(b.Positions), len(b.Normals), len(b.UVs))
	}

	mh := meshHeader{
		Kind:         uint32(m.Kind),
		Color:        m.Color,
		Layers:       m.Layers,
		NumPositions: uint32(len(b.Positions)),
		NumIndices:   uint32(len(b.Indices)),
		Anchor:       [3]float64{m.Anchor.X, m.Anchor.Y, m.Anchor.Z},
		Matrix:       m.Matrix,
	}
	if err := binary.Write(w, binary.LittleEndian, &mh); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if err := writeString(w, m.Key); err != nil {
		return fmt.Errorf("key: %w", err)
	}
	if err := writeString(w, m.Label); err != nil {
		return fmt.Errorf("label: %w", err)
	}
	if err := writeFloat64Slice(w, vec3Floats(b.Positions)); err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	if err := writeFloat64Slice(w, vec3Floats(b.Normals)); err != nil {
		return fmt.Errorf("normals: %w", err)
	}
	if err := writeFloat64Slice(w, uvFloats(b.UVs)); err != nil {
		return fmt.Errorf("uvs: %w", err)
	}
	if err := writeUint32Slice(w, b.Indices); err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	return nil
}

// ReadFile deserializes a scene from path.
func ReadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read deserializes a scene and verifies its CRC32 trailer.
func Read(in io.Reader) (*Scene, error) {
	crcReader := crc32Reader{r: in, hash: crc32.NewIEEE()}
	r := &crcReader

	// Read and validate header.
	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumMeshes > maxMeshes {
		return nil, fmt.Errorf("NumMeshes %d exceeds limit %d", hdr.NumMeshes, maxMeshes)
	}

	s := &Scene{Meshes: make([]Mesh, hdr.NumMeshes)}
	for i := range s.Meshes {
		if err := readMesh(r, &s.Meshes[i]); err != nil {
			return nil, fmt.Errorf("read mesh %d: %w", i, err)
		}
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(in, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	for i := range s.Meshes {
		if err := validateIndices(s.Meshes[i].Buffer); err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, s.Meshes[i].Key, err)
		}
	}
	return s, nil
}

func readMesh(r io.Reader, m *Mesh) error {
	var mh meshHeader
	if err := binary.Read(r, binary.LittleEndian, &mh); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if mh.NumPositions > maxPositions || mh.NumIndices > 3*maxPositions {
		return fmt.Errorf("buffer size %d/%d exceeds limit %d", mh.NumPositions, mh.NumIndices, maxPositions)
	}
	if mh.Kind > uint32(KindArrow) {
		return fmt.Errorf("unknown mesh kind %d", mh.Kind)
	}

	m.Kind = Kind(mh.Kind)
	m.Color = mh.Color
	m.Layers = mh.Layers
	m.Anchor = geom.Vec3{X: mh.Anchor[0], Y: mh.Anchor[1], Z: mh.Anchor[2]}
	m.Matrix = mh.Matrix

	var err error
	if m.Key, err = readString(r); err != nil {
		return fmt.Errorf("key: %w", err)
	}
	if m.Label, err = readString(r); err != nil {
		return fmt.Errorf("label: %w", err)
	}

	n := int(mh.NumPositions)
	b := &geom.Buffer{
		Positions: make([]geom.Vec3, n),
		Normals:   make([]geom.Vec3, n),
		UVs:       make([][2]float64, n),
	}
	if err := readFloat64Into(r, vec3Floats(b.Positions)); err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	if err := readFloat64Into(r, vec3Floats(b.Normals)); err != nil {
		return fmt.Errorf("normals: %w", err)
	}
	if err := readFloat64Into(r, uvFloats(b.UVs)); err != nil {
		return fmt.Errorf("uvs: %w", err)
	}
	if b.Indices, err = readUint32Slice(r, int(mh.NumIndices)); err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	m.Buffer = b
	return nil
}

// validateIndices checks that every index addresses a position and that
// the index count describes whole triangles.
func validateIndices(b *geom.Buffer) error {
	if len(b.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(b.Indices))
	}
	n := uint32(len(b.Positions))
	for i, idx := range b.Indices {
		if idx >= n {
			return fmt.Errorf("Indices[%d]=%d >= NumPositions=%d", i, idx, n)
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > maxString {
		return fmt.Errorf("string length %d exceeds limit %d", len(s), maxString)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > maxString {
		return "", fmt.Errorf("string length %d exceeds limit %d", n, maxString)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Zero-copy views and I/O helpers using unsafe.Slice.

func vec3Floats(s []geom.Vec3) []float64 {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&s[0])), len(s)*3)
}

func uvFloats(s [][2]float64) []float64 {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&s[0])), len(s)*2)
}

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readFloat64Into(r io.Reader, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := io.ReadFull(r, b)
	return err
}

// CRC32 wrapping writers/readers.

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
