package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// expectedInputExtensions lists the input extensions that are accepted
// without a warning. Anything else still converts; the warning only
// flags a likely mistake.
var expectedInputExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// warnUnexpectedExtension writes a warning to w if path does not look
// like a plain text file.
func warnUnexpectedExtension(w io.Writer, path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if !expectedInputExtensions[ext] {
		_, _ = fmt.Fprintf(w, "Warning: input extension %q is not .txt or .md: %s\n", ext, path)
	}
}

// backupPath returns the sibling backup path for dst, with ".backup"
// inserted before the extension: "out.wav" -> "out.backup.wav".
func backupPath(dst string) string {
	ext := filepath.Ext(dst)
	return strings.TrimSuffix(dst, ext) + ".backup" + ext
}

// copyFile copies src to dst byte-for-byte, removing the partial dst on
// failure.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- both paths derive from the user-specified output
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
		return fmt.Errorf("copying %s to %s: %w", src, dst, copyErr)
	}
	return nil
}

// moveFile moves src to dst, falling back to copy-and-remove when a
// rename is not possible (temp dir on another filesystem).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	_ = os.Remove(src) // best-effort; the temp dir cleanup catches leftovers
	return nil
}
