package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dgryski/go-farm"
)

// CAS stores serialized items under the fingerprint of their encoding. Equal
// encodings share one entry.
type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
	Len() int
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

type directStore interface {
	getValue(h Hash) (bool, []byte, error)
}

type Hash uint64

// Fingerprint returns the hash item would be stored under.
func Fingerprint(item Hashable) (Hash, error) {
	h, _, err := encode(item)
	return h, err
}

func encode(item Hashable) (Hash, []byte, error) {
	var buf bytes.Buffer
	if err := item.Serialize(&buf); err != nil {
		return 0, nil, err
	}
	data := buf.Bytes()
	return Hash(farm.Hash64(data)), data, nil
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%016x", uint64(h))
}

type hashablePtr[T any] interface {
	*T
	Hashable
}

// Retrieve decodes the item stored under hash into a new T.
func Retrieve[T any, PT hashablePtr[T]](c CAS, hash Hash) (PT, error) {
	v, ok := c.(directStore)
	if !ok {
		return nil, errors.New("CAS does not support direct retrieval")
	}
	has, data, err := v.getValue(hash)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("hash not found in CAS: %s", hash)
	}
	out := PT(new(T))
	if err := out.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("deserializing %T: %w", out, err)
	}
	return out, nil
}
