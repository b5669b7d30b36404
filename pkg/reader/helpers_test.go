package reader

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
)

// testReadSeeker checks random seek-then-read sequences against the data
// the reader was built from.
func testReadSeeker(t *testing.T, newReader func([]byte) io.ReadSeeker) {
	const trials = 1000

	data := randomBuffer(10 * 1024)
	rs := newReader(data)
	rng := rand.New(rand.NewSource(42))

	var buf [64]byte
	for i := range trials {
		offset := rng.Intn(len(data))
		readLen := max(1, min(rng.Intn(len(buf)), len(data)-offset))

		if _, err := rs.Seek(int64(offset), io.SeekStart); err != nil {
			t.Fatalf("trial %d: Seek(%d, SeekStart) failed: %v", i, offset, err)
		}

		n, err := rs.Read(buf[:readLen])
		if err != nil && err != io.EOF {
			t.Fatalf("trial %d: Read after Seek failed: %v", i, err)
		}

		expected := data[offset : offset+readLen]
		if !bytes.Equal(buf[:n], expected) {
			t.Errorf("trial %d: mismatch at offset %d\nGot:      %v\nExpected: %v",
				i, offset, buf[:n], expected)
		}
	}
}

func randomBuffer(n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(int64(n))).Read(b)
	return b
}
