package knn

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/viterin/vek/vek32"

	"github.com/YuminosukeSato/molknn/pkg/errors"
)

// Index artifact layout: magic, then dim and row count as uint32, then the
// vectors as little-endian float32 in row order.
var indexMagic = [4]byte{'M', 'K', 'N', '1'}

// Save writes the index artifact. The file is only meaningful together
// with the targets artifact written by the same training run.
func (idx *FlatIndex) Save(path string) error {
	if idx.Len() == 0 {
		return errors.NewModelError("FlatIndex.Save", "index not built", errors.ErrEmptyIndex)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewModelError("FlatIndex.Save", "cannot create index file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(indexMagic[:]); err != nil {
		return errors.NewModelError("FlatIndex.Save", "write header", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(idx.dim)); err != nil {
		return errors.NewModelError("FlatIndex.Save", "write header", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(idx.Len())); err != nil {
		return errors.NewModelError("FlatIndex.Save", "write header", err)
	}
	for _, v := range idx.vecs {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return errors.NewModelError("FlatIndex.Save", "write vectors", err)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.NewModelError("FlatIndex.Save", "flush", err)
	}
	return f.Sync()
}

// LoadIndex reads an index artifact written by Save. A missing file fails
// with a NotFoundError; a corrupt one with a ModelError naming the file.
func LoadIndex(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("index", path, "")
		}
		return nil, errors.NewModelError("knn.LoadIndex", "cannot open index file", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.NewNotFoundError("index", path, "truncated header")
	}
	if magic != indexMagic {
		return nil, errors.NewNotFoundError("index", path, "not a MolKNN index file")
	}

	var dim, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, errors.NewNotFoundError("index", path, "truncated header")
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.NewNotFoundError("index", path, "truncated header")
	}
	if dim == 0 || count == 0 {
		return nil, errors.NewNotFoundError("index", path, "empty index")
	}

	vecs := make([][]float32, count)
	norms := make([]float32, count)
	for i := range vecs {
		v := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, errors.NewNotFoundError("index", path, "truncated vector data")
		}
		vecs[i] = v
		norms[i] = vek32.Dot(v, v)
	}

	return &FlatIndex{dim: int(dim), vecs: vecs, norms: norms}, nil
}
