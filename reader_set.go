package weft

import (
	"fmt"
	"time"

	"github.com/arloliu/weft/errs"
	"github.com/arloliu/weft/internal/hash"
)

// ReaderSet manages readers for several weft files keyed by caller-provided
// ids, typically one file per quantity of the same body ("mars/longitude",
// "mars/latitude", ...). Keys are xxHash64 digests of the id strings; Add
// rejects distinct ids that collide.
//
// Like Reader, a ReaderSet is single-threaded by contract.
type ReaderSet struct {
	readers map[uint64]*Reader
	ids     map[uint64]string
}

// NewReaderSet creates an empty set.
func NewReaderSet() *ReaderSet {
	return &ReaderSet{
		readers: make(map[uint64]*Reader),
		ids:     make(map[uint64]string),
	}
}

// Add registers a file under id, replacing any previous file with the same
// id.
//
// Returns:
//   - error: errs.ErrIDCollision when a distinct id hashes to the same key
func (rs *ReaderSet) Add(id string, file *File, opts ...ReaderOption) error {
	key := hash.ID(id)
	if existing, ok := rs.ids[key]; ok && existing != id {
		return fmt.Errorf("%w: %q vs %q", errs.ErrIDCollision, id, existing)
	}

	reader, err := NewReader(file, opts...)
	if err != nil {
		return err
	}
	rs.readers[key] = reader
	rs.ids[key] = id

	return nil
}

// Reader returns the reader registered under id.
//
// Returns:
//   - *Reader: The registered reader
//   - error: errs.ErrUnknownReader when id was never added
func (rs *ReaderSet) Reader(id string) (*Reader, error) {
	reader, ok := rs.readers[hash.ID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownReader, id)
	}

	return reader, nil
}

// ValueAt resolves the quantity stored under id at instant t.
func (rs *ReaderSet) ValueAt(id string, t time.Time) (float64, error) {
	reader, err := rs.Reader(id)
	if err != nil {
		return 0, err
	}

	return reader.ValueAt(t)
}

// IDs returns the registered ids in unspecified order.
func (rs *ReaderSet) IDs() []string {
	ids := make([]string, 0, len(rs.ids))
	for _, id := range rs.ids {
		ids = append(ids, id)
	}

	return ids
}

// Len returns the number of registered files.
func (rs *ReaderSet) Len() int {
	return len(rs.readers)
}
