package generator

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	alphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	requestIDSize = 20
)

// RandomString returns length characters drawn from a crypto/rand source.
func RandomString(length int) (string, error) {
	result := make([]byte, length)
	limit := big.NewInt(int64(len(alphabet)))

	for i := range result {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		result[i] = alphabet[idx.Int64()]
	}

	return string(result), nil
}

// RequestID never fails: if the random source is unavailable it falls back
// to a timestamp, which is still unique enough to correlate log lines.
func RequestID() string {
	id, err := RandomString(requestIDSize)
	if err != nil {
		return "t" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id
}
