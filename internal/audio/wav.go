// Package audio inspects and merges WAV files. It performs no
// transcoding: the synthesis collaborator dictates the format, and
// assembly is a byte-level concatenation of frame data.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Format describes the PCM parameters of a WAV stream.
// All segments merged into one output must agree on every field.
type Format struct {
	SampleRate  int // Frames per second.
	Channels    int // Channel count.
	SampleWidth int // Bytes per sample (bit depth / 8).
}

// String returns a compact representation for logging and errors.
func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d-bit", f.SampleRate, f.Channels, f.SampleWidth*8)
}

// Info describes a parsed WAV file.
type Info struct {
	Format   Format
	DataSize int64 // Size of the data chunk payload in bytes.
}

// Frames returns the number of audio frames in the data chunk.
func (i Info) Frames() int64 {
	frameSize := int64(i.Format.Channels * i.Format.SampleWidth)
	if frameSize == 0 {
		return 0
	}
	return i.DataSize / frameSize
}

// Duration returns the playback length of the audio.
func (i Info) Duration() time.Duration {
	if i.Format.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(i.Frames()) / float64(i.Format.SampleRate) * float64(time.Second))
}

// wavFile is the parse result for one file: the format, the raw fmt
// chunk payload (preserved verbatim when writing merged output), and
// the position of the frame data.
type wavFile struct {
	format     Format
	fmtPayload []byte
	dataOffset int64
	dataSize   int64
}

func (w wavFile) info() Info {
	return Info{Format: w.format, DataSize: w.dataSize}
}

// ReadInfo parses the RIFF/WAVE headers of the file at path.
func ReadInfo(path string) (Info, error) {
	f, err := os.Open(path) // #nosec G304 -- path is an internally-generated segment or the user's output
	if err != nil {
		return Info{}, fmt.Errorf("cannot open audio file: %w", err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := parseWAV(f)
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}
	return parsed.info(), nil
}

// parseWAV scans the chunk list of a RIFF/WAVE stream.
// Unknown chunks (LIST, fact, ...) are skipped; only "fmt " and "data"
// are interpreted. Both must be present.
func parseWAV(r io.ReadSeeker) (wavFile, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return wavFile{}, fmt.Errorf("%w: truncated RIFF header", ErrInvalidWAV)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return wavFile{}, fmt.Errorf("%w: missing RIFF/WAVE marker", ErrInvalidWAV)
	}

	var out wavFile
	haveFmt := false
	haveData := false
	offset := int64(12)

	for !(haveFmt && haveData) {
		var header [8]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return wavFile{}, fmt.Errorf("%w: reading chunk header: %v", ErrInvalidWAV, err)
		}
		id := string(header[0:4])
		size := int64(binary.LittleEndian.Uint32(header[4:8]))
		offset += 8

		switch id {
		case "fmt ":
			if size < 16 {
				return wavFile{}, fmt.Errorf("%w: fmt chunk too short (%d bytes)", ErrInvalidWAV, size)
			}
			payload := make([]byte, size)
			if _, err := io.ReadFull(r, payload); err != nil {
				return wavFile{}, fmt.Errorf("%w: truncated fmt chunk", ErrInvalidWAV)
			}
			out.fmtPayload = payload
			out.format = Format{
				SampleRate:  int(binary.LittleEndian.Uint32(payload[4:8])),
				Channels:    int(binary.LittleEndian.Uint16(payload[2:4])),
				SampleWidth: int(binary.LittleEndian.Uint16(payload[14:16])) / 8,
			}
			haveFmt = true
			offset += size
		case "data":
			out.dataOffset = offset
			out.dataSize = size
			haveData = true
			// Skip past the payload in case fmt follows data.
			if _, err := r.Seek(size, io.SeekCurrent); err != nil {
				return wavFile{}, fmt.Errorf("%w: truncated data chunk", ErrInvalidWAV)
			}
			offset += size
		default:
			if _, err := r.Seek(size, io.SeekCurrent); err != nil {
				return wavFile{}, fmt.Errorf("%w: truncated %q chunk", ErrInvalidWAV, id)
			}
			offset += size
		}

		// RIFF chunks are word-aligned; odd sizes carry a pad byte.
		if size%2 == 1 {
			if _, err := r.Seek(1, io.SeekCurrent); err != nil {
				break
			}
			offset++
		}
	}

	if !haveFmt {
		return wavFile{}, fmt.Errorf("%w: no fmt chunk", ErrInvalidWAV)
	}
	if !haveData {
		return wavFile{}, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
	}
	return out, nil
}

// writeWAVHeader writes the RIFF header, the verbatim fmt chunk, and the
// data chunk header for a stream of dataSize payload bytes.
func writeWAVHeader(w io.Writer, fmtPayload []byte, dataSize int64) error {
	riffSize := 4 + (8 + int64(len(fmtPayload))) + (8 + dataSize)
	if len(fmtPayload)%2 == 1 {
		riffSize++
	}

	var scratch [4]byte
	write := func(b []byte) error {
		_, err := w.Write(b)
		return err
	}
	writeU32 := func(v uint32) error {
		binary.LittleEndian.PutUint32(scratch[:], v)
		return write(scratch[:])
	}

	if err := write([]byte("RIFF")); err != nil {
		return err
	}
	if err := writeU32(uint32(riffSize)); err != nil { // #nosec G115 -- WAV sizes fit in 32 bits by format definition
		return err
	}
	if err := write([]byte("WAVE")); err != nil {
		return err
	}
	if err := write([]byte("fmt ")); err != nil {
		return err
	}
	if err := writeU32(uint32(len(fmtPayload))); err != nil { // #nosec G115
		return err
	}
	if err := write(fmtPayload); err != nil {
		return err
	}
	if len(fmtPayload)%2 == 1 {
		if err := write([]byte{0}); err != nil {
			return err
		}
	}
	if err := write([]byte("data")); err != nil {
		return err
	}
	return writeU32(uint32(dataSize)) // #nosec G115
}

// copyData streams the data chunk payload of src into w.
func copyData(w io.Writer, src wavFile, r io.ReadSeeker) error {
	if _, err := r.Seek(src.dataOffset, io.SeekStart); err != nil {
		return err
	}
	_, err := io.CopyN(w, r, src.dataSize)
	return err
}
