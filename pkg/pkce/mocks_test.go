package pkce

import (
	"context"
	"encoding/hex"

	"github.com/stretchr/testify/mock"
)

type MockRandomnessSource struct {
	mock.Mock
}

func (m *MockRandomnessSource) Fill(buf []byte) error {
	args := m.Called(buf)
	return args.Error(0)
}

type MockDigestProvider struct {
	mock.Mock
}

func (m *MockDigestProvider) SHA256(ctx context.Context, input []byte) ([]byte, error) {
	args := m.Called(ctx, input)
	sum, _ := args.Get(0).([]byte)
	return sum, args.Error(1)
}

// constantRandom writes the same byte into every position
type constantRandom byte

func (c constantRandom) Fill(buf []byte) error {
	for i := range buf {
		buf[i] = byte(c)
	}
	return nil
}

// sequenceRandom writes 0, 1, 2, ... starting at its value
type sequenceRandom byte

func (s sequenceRandom) Fill(buf []byte) error {
	for i := range buf {
		buf[i] = byte(s) + byte(i)
	}
	return nil
}

type panicRandom struct{}

func (panicRandom) Fill(buf []byte) error {
	panic("entropy pool unavailable")
}

// hexCodec records every value it encodes
type hexCodec struct {
	encoded [][]byte
}

func (h *hexCodec) Encode(input []byte) string {
	h.encoded = append(h.encoded, append([]byte(nil), input...))
	return hex.EncodeToString(input)
}

func (h *hexCodec) Decode(input string) ([]byte, error) {
	return hex.DecodeString(input)
}
