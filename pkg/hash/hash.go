package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// SumBytes возвращает hex-представление SHA-256 от данных.
func SumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// TeeHasher считает SHA-256 по мере чтения из обёрнутого Reader.
// Используется при загрузке в хранилище: после того как потребитель
// дочитал поток до конца, Sum/Size отражают весь загруженный файл.
type TeeHasher struct {
	reader io.Reader
	hasher hash.Hash
	size   int64
}

func NewTeeHasher(r io.Reader) *TeeHasher {
	return &TeeHasher{
		reader: r,
		hasher: sha256.New(),
	}
}

func (t *TeeHasher) Read(p []byte) (int, error) {
	n, err := t.reader.Read(p)
	if n > 0 {
		t.hasher.Write(p[:n])
		t.size += int64(n)
	}
	return n, err
}

func (t *TeeHasher) Sum() string {
	return hex.EncodeToString(t.hasher.Sum(nil))
}

func (t *TeeHasher) Size() int64 {
	return t.size
}

// Verify сравнивает данные с ожидаемым hex-дайджестом.
func Verify(data []byte, expected string) bool {
	return SumBytes(data) == expected
}
