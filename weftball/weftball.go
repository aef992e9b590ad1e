// Package weftball packs several weft files into a single tar archive,
// typically one file per quantity of the same body (longitude, latitude,
// distance). Archives may be plain .tar or wrapped in one of the compress
// package's codecs (.tar.gz, .tar.zst, .tar.lz4, .tar.s2).
//
// Every archive carries a manifest as its first entry listing each member
// with its size and xxHash64 checksum; Unpack verifies the checksums.
// Members are individually valid weft files, so a weftball can also be
// unpacked with plain tar tooling.
package weftball

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/arloliu/weft/compress"
	"github.com/arloliu/weft/errs"
	"github.com/arloliu/weft/format"
	"github.com/arloliu/weft/internal/hash"
)

// ManifestName is the archive entry holding the member list.
const ManifestName = "MANIFEST"

// Entry is one member of a weftball: a named weft file.
type Entry struct {
	// Name is the member file name, e.g. "mars_longitude.weft".
	Name string
	// Data is the serialized weft file.
	Data []byte
}

// CompressionForPath infers the archive codec from a file name.
//
// Recognized suffixes: .tar (none), .tar.gz/.tgz (gzip), .tar.zst (zstd),
// .tar.lz4 (lz4), .tar.s2 (s2).
func CompressionForPath(path string) (format.CompressionType, error) {
	switch {
	case strings.HasSuffix(path, ".tar"):
		return format.CompressionNone, nil
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		return format.CompressionGzip, nil
	case strings.HasSuffix(path, ".tar.zst"):
		return format.CompressionZstd, nil
	case strings.HasSuffix(path, ".tar.lz4"):
		return format.CompressionLZ4, nil
	case strings.HasSuffix(path, ".tar.s2"):
		return format.CompressionS2, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized archive suffix in %q", errs.ErrUnknownCompression, filepath.Base(path))
	}
}

// Pack writes the entries as a weftball to out using the given codec.
// Entries are sorted by name, so packing the same set twice yields
// byte-identical archives.
//
// Returns:
//   - error: errs.ErrUnknownCompression or a propagated write error
func Pack(out io.Writer, compression format.CompressionType, entries []Entry) error {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrUnknownCompression, compression)
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	manifest := buildManifest(sorted)
	if err := writeTarEntry(tw, ManifestName, manifest); err != nil {
		return err
	}
	for _, e := range sorted {
		if err := writeTarEntry(tw, e.Name, e.Data); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	compressed, err := codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("compress archive: %w", err)
	}
	if _, err := out.Write(compressed); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	return nil
}

// PackFile packs entries to a new file at path, inferring the codec from
// the file name. The file handle is released on every path.
func PackFile(path string, entries []Entry) error {
	compression, err := CompressionForPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	if err := Pack(f, compression, entries); err != nil {
		return err
	}

	return f.Close()
}

// Unpack reads a weftball from r, verifying member checksums against the
// manifest when one is present.
//
// Returns:
//   - []Entry: Members in archive order, manifest excluded
//   - error: errs.ErrChecksumMismatch, errs.ErrUnknownCompression, or a
//     propagated read error
func Unpack(r io.Reader, compression format.CompressionType) ([]Entry, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownCompression, compression)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	plain, err := codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}

	var entries []Entry
	var checksums map[string]uint64

	tr := tar.NewReader(bytes.NewReader(plain))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read archive entry %q: %w", hdr.Name, err)
		}
		if hdr.Name == ManifestName {
			checksums = parseManifest(data)
			continue
		}
		entries = append(entries, Entry{Name: hdr.Name, Data: data})
	}

	for _, e := range entries {
		want, ok := checksums[e.Name]
		if !ok {
			continue
		}
		if got := hash.Sum(e.Data); got != want {
			return nil, fmt.Errorf("%w: %q expected %016x, got %016x",
				errs.ErrChecksumMismatch, e.Name, want, got)
		}
	}

	return entries, nil
}

// UnpackFile unpacks the weftball at path, inferring the codec from the
// file name. The file handle is released on every path.
func UnpackFile(path string) ([]Entry, error) {
	compression, err := CompressionForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	return Unpack(f, compression)
}

// buildManifest renders one "name size checksum" line per entry.
func buildManifest(entries []Entry) []byte {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Name)
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(len(e.Data)))
		sb.WriteByte(' ')
		sb.WriteString(fmt.Sprintf("%016x", hash.Sum(e.Data)))
		sb.WriteByte('\n')
	}

	return []byte(sb.String())
}

// parseManifest decodes buildManifest's output. Malformed lines are
// ignored; verification is best-effort for archives produced by other
// tooling.
func parseManifest(data []byte) map[string]uint64 {
	checksums := make(map[string]uint64)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		sum, err := strconv.ParseUint(fields[2], 16, 64)
		if err != nil {
			continue
		}
		checksums[fields[0]] = sum
	}

	return checksums
}

// writeTarEntry appends one regular file to the tar stream.
func writeTarEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write archive entry %q: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("write archive entry %q: %w", name, err)
	}

	return nil
}
