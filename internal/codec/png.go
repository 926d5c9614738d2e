package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"math"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

const (
	pngUnitUnknown = 0
	pngUnitMeter   = 1
)

type pngChunk struct {
	kind string
	data []byte
}

func parsePNGChunks(data []byte) ([]pngChunk, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New("png: incorrect signature")
	}

	buf := data[len(pngSignature):]
	var chunks []pngChunk
	for len(buf) > 0 {
		if len(buf) < 12 {
			return nil, errors.New("png: broken structure of chunk")
		}
		length := binary.BigEndian.Uint32(buf[:4])
		if uint64(length)+12 > uint64(len(buf)) {
			return nil, errors.New("png: broken structure of chunk")
		}
		chunk := pngChunk{kind: string(buf[4:8]), data: buf[8 : 8+length]}
		chunks = append(chunks, chunk)
		buf = buf[12+length:]

		if chunk.kind == "IEND" {
			break
		}
	}
	return chunks, nil
}

func writePNGChunks(w io.Writer, chunks []pngChunk) error {
	writer := &errWriter{w: w}
	u32 := make([]byte, 4)

	writer.Write(pngSignature)
	for _, chunk := range chunks {
		binary.BigEndian.PutUint32(u32, uint32(len(chunk.data)))
		writer.Write(u32)

		crc := crc32.NewIEEE()
		crc.Write([]byte(chunk.kind))
		crc.Write(chunk.data)

		writer.Write([]byte(chunk.kind))
		writer.Write(chunk.data)

		binary.BigEndian.PutUint32(u32, crc.Sum32())
		writer.Write(u32)
	}
	return writer.err
}

// setPNGChunk replaces the first chunk of the same kind, or inserts the chunk
// before the first IDAT when none exists.
func setPNGChunk(chunks []pngChunk, chunk pngChunk) ([]pngChunk, error) {
	for i := range chunks {
		if chunks[i].kind == chunk.kind {
			chunks[i] = chunk
			return chunks, nil
		}
	}
	for i := range chunks {
		if chunks[i].kind == "IDAT" {
			out := make([]pngChunk, 0, len(chunks)+1)
			out = append(out, chunks[:i]...)
			out = append(out, chunk)
			return append(out, chunks[i:]...), nil
		}
	}
	return nil, errors.New("png: IDAT chunk not found")
}

func physChunk(x, y uint32, unit byte) pngChunk {
	data := make([]byte, 9)
	binary.BigEndian.PutUint32(data[0:4], x)
	binary.BigEndian.PutUint32(data[4:8], y)
	data[8] = unit
	return pngChunk{kind: "pHYs", data: data}
}

func readPNGResolution(data []byte) Resolution {
	chunks, err := parsePNGChunks(data)
	if err != nil {
		return Resolution{}
	}
	for _, chunk := range chunks {
		if chunk.kind == "IDAT" {
			break
		}
		if chunk.kind != "pHYs" || len(chunk.data) != 9 {
			continue
		}
		res := Resolution{
			X: float64(binary.BigEndian.Uint32(chunk.data[0:4])),
			Y: float64(binary.BigEndian.Uint32(chunk.data[4:8])),
		}
		if chunk.data[8] == pngUnitMeter {
			res.Unit = UnitPixelsPerMeter
		}
		return res
	}
	return Resolution{}
}

func stampPNGResolution(data []byte, res Resolution) ([]byte, error) {
	if res.IsZero() {
		return data, nil
	}

	var phys pngChunk
	if x, y, ok := res.PerMeter(); ok {
		phys = physChunk(x, y, pngUnitMeter)
	} else {
		phys = physChunk(uint32(math.Round(res.X)), uint32(math.Round(res.Y)), pngUnitUnknown)
	}

	chunks, err := parsePNGChunks(data)
	if err != nil {
		return nil, err
	}
	chunks, err = setPNGChunk(chunks, phys)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(data) + 21)
	if err := writePNGChunks(&out, chunks); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}
