package weftball

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arloliu/weft"
	"github.com/arloliu/weft/block"
	"github.com/arloliu/weft/errs"
	"github.com/arloliu/weft/format"
	"github.com/stretchr/testify/require"
)

// weftEntry serializes a minimal valid weft file for the given quantity.
func weftEntry(t *testing.T, quantity string, behavior weft.ValueBehavior, value float32) Entry {
	t.Helper()
	f := &weft.File{
		Preamble: weft.NewPreamble("mars", "test", "2024", quantity, behavior,
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		Monthly: []block.MonthlyBlock{{Year: 2024, Month: 1, DayCount: 31, Coeffs: []float32{value}}},
	}
	data, err := f.Bytes()
	require.NoError(t, err)

	return Entry{Name: "mars_" + quantity + ".weft", Data: data}
}

func testEntries(t *testing.T) []Entry {
	return []Entry{
		weftEntry(t, "longitude", weft.Wrapping(0, 360), 120.5),
		weftEntry(t, "latitude", weft.Bounded(-90, 90), -1.25),
		weftEntry(t, "distance", weft.Unbounded(), 1.52),
	}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	entries := testEntries(t)

	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionGzip,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, compression := range compressions {
		t.Run(compression.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Pack(&buf, compression, entries))

			unpacked, err := Unpack(&buf, compression)
			require.NoError(t, err)
			require.Len(t, unpacked, 3)

			// Members come back sorted by name and each is a valid weft file.
			require.Equal(t, "mars_distance.weft", unpacked[0].Name)
			require.Equal(t, "mars_latitude.weft", unpacked[1].Name)
			require.Equal(t, "mars_longitude.weft", unpacked[2].Name)
			for _, e := range unpacked {
				_, err := weft.Parse(e.Data)
				require.NoError(t, err)
			}
		})
	}
}

func TestPack_Deterministic(t *testing.T) {
	entries := testEntries(t)
	reversed := []Entry{entries[2], entries[1], entries[0]}

	var a, b bytes.Buffer
	require.NoError(t, Pack(&a, format.CompressionNone, entries))
	require.NoError(t, Pack(&b, format.CompressionNone, reversed))
	require.Equal(t, a.Bytes(), b.Bytes())
}

func TestPackFileUnpackFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mars.tar.gz")

	entries := testEntries(t)
	require.NoError(t, PackFile(path, entries))

	unpacked, err := UnpackFile(path)
	require.NoError(t, err)
	require.Len(t, unpacked, 3)
}

func TestCompressionForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    format.CompressionType
		wantErr bool
	}{
		{"mars.tar", format.CompressionNone, false},
		{"mars.tar.gz", format.CompressionGzip, false},
		{"mars.tgz", format.CompressionGzip, false},
		{"mars.tar.zst", format.CompressionZstd, false},
		{"mars.tar.lz4", format.CompressionLZ4, false},
		{"mars.tar.s2", format.CompressionS2, false},
		{"mars.zip", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := CompressionForPath(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrUnknownCompression)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUnpack_ChecksumMismatch(t *testing.T) {
	entry := weftEntry(t, "longitude", weft.Wrapping(0, 360), 120.5)

	// Hand-build an archive whose manifest claims the wrong checksum.
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	manifest := []byte(entry.Name + " 10 0000000000000000\n")
	require.NoError(t, writeTarEntry(tw, ManifestName, manifest))
	require.NoError(t, writeTarEntry(tw, entry.Name, entry.Data))
	require.NoError(t, tw.Close())

	_, err := Unpack(&buf, format.CompressionNone)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestUnpack_NoManifestIsAccepted(t *testing.T) {
	// Archives from plain tar tooling carry no manifest; members are
	// returned unverified.
	entry := weftEntry(t, "longitude", weft.Wrapping(0, 360), 120.5)

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, writeTarEntry(tw, entry.Name, entry.Data))
	require.NoError(t, tw.Close())

	unpacked, err := Unpack(&buf, format.CompressionNone)
	require.NoError(t, err)
	require.Len(t, unpacked, 1)
	require.Equal(t, entry.Data, unpacked[0].Data)
}

func TestUnpack_BadArchive(t *testing.T) {
	_, err := Unpack(bytes.NewReader([]byte("not a tar stream at all, definitely")), format.CompressionNone)
	require.Error(t, err)
}

func TestPackFile_UnknownSuffix(t *testing.T) {
	dir := t.TempDir()
	err := PackFile(filepath.Join(dir, "mars.zip"), testEntries(t))
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
	_, statErr := os.Stat(filepath.Join(dir, "mars.zip"))
	require.True(t, os.IsNotExist(statErr))
}
