package audio

import (
	"fmt"
	"io"
	"os"
)

// Segment is the audio output of synthesizing exactly one chunk.
// Segments live in a temporary directory owned by the caller for the
// duration of the pipeline run.
type Segment struct {
	Index  int    // Chunk index this segment was synthesized from.
	Path   string // Absolute path to the segment WAV file.
	Format Format // Parsed format metadata.
}

// String returns a human-readable representation for logging.
func (s Segment) String() string {
	return fmt.Sprintf("segment %d (%s)", s.Index, s.Format)
}

// Assemble merges segments, in input order, into a single WAV file at
// dstPath.
//
// A single segment is copied byte-for-byte with no re-encoding. With
// multiple segments, the first segment's format parameters become the
// output's; every later segment is compared field-by-field and any
// mismatch fails with ErrFormatMismatch naming the segment index and
// the offending field. Frame data is concatenated exactly adjacent: no
// resampling, no gaps, no cross-fades.
//
// On any failure the partial output at dstPath is removed.
func Assemble(segments []Segment, dstPath string) error {
	if len(segments) == 0 {
		return ErrNoSegments
	}

	if len(segments) == 1 {
		return copyFile(segments[0].Path, dstPath)
	}

	// Parse and validate every segment before writing a single byte,
	// so a late mismatch cannot leave output behind.
	parsed := make([]wavFile, len(segments))
	for i, seg := range segments {
		p, err := parseSegment(seg.Path)
		if err != nil {
			return fmt.Errorf("segment %d: %w", seg.Index, err)
		}
		parsed[i] = p
	}

	want := parsed[0].format
	for i, seg := range segments[1:] {
		if err := compareFormats(want, parsed[i+1].format); err != nil {
			return fmt.Errorf("segment %d: %w", seg.Index, err)
		}
	}

	var totalData int64
	for _, p := range parsed {
		totalData += p.dataSize
	}

	out, err := os.Create(dstPath) // #nosec G304 -- dstPath is a pipeline-owned temp file
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = out.Close() }()

		if err := writeWAVHeader(out, parsed[0].fmtPayload, totalData); err != nil {
			return fmt.Errorf("writing WAV header: %w", err)
		}
		for i, seg := range segments {
			if err := appendSegmentData(out, parsed[i], seg.Path); err != nil {
				return fmt.Errorf("segment %d: %w", seg.Index, err)
			}
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(dstPath)
		return writeErr
	}
	return nil
}

// compareFormats checks every format field and reports the first
// mismatch by name.
func compareFormats(want, got Format) error {
	switch {
	case got.SampleRate != want.SampleRate:
		return fmt.Errorf("%w: sample rate %d != %d", ErrFormatMismatch, got.SampleRate, want.SampleRate)
	case got.Channels != want.Channels:
		return fmt.Errorf("%w: channel count %d != %d", ErrFormatMismatch, got.Channels, want.Channels)
	case got.SampleWidth != want.SampleWidth:
		return fmt.Errorf("%w: sample width %d != %d", ErrFormatMismatch, got.SampleWidth, want.SampleWidth)
	}
	return nil
}

// parseSegment opens and parses one segment file.
func parseSegment(path string) (wavFile, error) {
	f, err := os.Open(path) // #nosec G304 -- path is an internally-generated segment
	if err != nil {
		return wavFile{}, fmt.Errorf("cannot open segment: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parseWAV(f)
}

// appendSegmentData re-opens a segment and streams its frame data into w.
func appendSegmentData(w io.Writer, parsed wavFile, path string) error {
	f, err := os.Open(path) // #nosec G304 -- path is an internally-generated segment
	if err != nil {
		return fmt.Errorf("cannot open segment: %w", err)
	}
	defer func() { _ = f.Close() }()
	return copyData(w, parsed, f)
}

// copyFile copies src to dst byte-for-byte.
// On failure the partial dst is removed.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- both paths are pipeline-owned
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", dst, err)
	}

	copyErr := func() error {
		defer func() { _ = out.Close() }()
		_, err := io.Copy(out, in)
		return err
	}()

	if copyErr != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copying %s: %w", src, copyErr)
	}
	return nil
}
