package quantization

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/vecops"
)

// Serialized codebooks:
//
//	magic "VOPQ" | version u8 | compression u8 | flags u8 | reserved u8
//	block header (see compressBlock) | payload
//
// The payload is dimension u32, M u32, the centroid rows of every subspace
// in order, then the center if flagCenter is set. All values little-endian.
const (
	codecMagic      = "VOPQ"
	codecVersion    = 1
	codecHeaderSize = 8

	flagCenter = 1 << 0

	// maxPayloadSize bounds allocations when reading untrusted input.
	maxPayloadSize = 1 << 30
)

// WriteCodebooks serializes cb to w using compression c.
func WriteCodebooks(w io.Writer, cb *Codebooks, c Compression) error {
	floats := Clusters * cb.dimension
	if cb.center != nil {
		floats += cb.dimension
	}
	payload := make([]byte, 8, 8+4*floats)
	binary.LittleEndian.PutUint32(payload[0:], uint32(cb.dimension))
	binary.LittleEndian.PutUint32(payload[4:], uint32(cb.M()))
	for _, row := range cb.centroids {
		payload = appendFloats(payload, row)
	}
	if cb.center != nil {
		payload = appendFloats(payload, cb.center)
	}

	block, err := compressBlock(payload, c)
	if err != nil {
		return fmt.Errorf("compress codebooks: %w", err)
	}

	header := make([]byte, codecHeaderSize)
	copy(header, codecMagic)
	header[4] = codecVersion
	header[5] = byte(c)
	if cb.center != nil {
		header[6] = flagCenter
	}

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// ReadCodebooks deserializes codebooks written by WriteCodebooks.
func ReadCodebooks(r io.Reader) (*Codebooks, error) {
	var head [codecHeaderSize + blockHeaderSize]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", vecops.ErrCorruptCodebooks, err)
	}
	if string(head[:4]) != codecMagic {
		return nil, fmt.Errorf("%w: bad magic %q", vecops.ErrCorruptCodebooks, head[:4])
	}
	if head[4] != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", vecops.ErrCorruptCodebooks, head[4])
	}
	c := Compression(head[5])
	hasCenter := head[6]&flagCenter != 0

	uncompressedSize := binary.LittleEndian.Uint32(head[codecHeaderSize:])
	compressedSize := binary.LittleEndian.Uint32(head[codecHeaderSize+4:])
	if uncompressedSize > maxPayloadSize || compressedSize > maxPayloadSize {
		return nil, fmt.Errorf("%w: block too large", vecops.ErrCorruptCodebooks)
	}

	bodySize := compressedSize
	if bodySize == 0 {
		bodySize = uncompressedSize
	}
	body := make([]byte, bodySize)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: read block: %w", vecops.ErrCorruptCodebooks, err)
	}
	payload, err := decompressBlock(body, uncompressedSize, compressedSize, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vecops.ErrCorruptCodebooks, err)
	}

	return decodePayload(payload, hasCenter)
}

func decodePayload(payload []byte, hasCenter bool) (*Codebooks, error) {
	if len(payload) < 8 {
		return nil, fmt.Errorf("%w: truncated payload", vecops.ErrCorruptCodebooks)
	}
	dimension := int(binary.LittleEndian.Uint32(payload[0:]))
	m := int(binary.LittleEndian.Uint32(payload[4:]))
	if m == 0 || dimension < m {
		return nil, fmt.Errorf("%w: dimension %d with %d subspaces", vecops.ErrCorruptCodebooks, dimension, m)
	}

	floats := Clusters * dimension
	if hasCenter {
		floats += dimension
	}
	if want := 8 + 4*floats; len(payload) != want {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", vecops.ErrCorruptCodebooks, len(payload), want)
	}

	sizes, offsets := SubvectorSizesAndOffsets(dimension, m)
	cb := &Codebooks{
		dimension: dimension,
		sizes:     sizes,
		offsets:   offsets,
		centroids: make([][]float32, m),
	}
	rest := payload[8:]
	for i, size := range sizes {
		cb.centroids[i], rest = readFloats(rest, Clusters*size)
	}
	if hasCenter {
		cb.center, _ = readFloats(rest, dimension)
	}
	return cb, nil
}

func appendFloats(dst []byte, v []float32) []byte {
	for _, f := range v {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

func readFloats(src []byte, n int) ([]float32, []byte) {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
	return out, src[4*n:]
}
