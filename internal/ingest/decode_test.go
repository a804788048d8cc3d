package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/shared/testutil"
)

func TestDecode(t *testing.T) {
	korean := "일자,거래처명\n2024/01/05,스티물 주식회사\n"

	tests := []struct {
		name     string
		input    []byte
		want     string
		encoding string
	}{
		{
			name:     "cp949",
			input:    testutil.EncodeCP949(t, korean),
			want:     korean,
			encoding: EncodingCP949,
		},
		{
			name:     "utf-8 korean falls back",
			input:    []byte(korean),
			want:     korean,
			encoding: EncodingUTF8,
		},
		{
			name:     "utf-8 symbols fall back",
			input:    []byte("a,€\n"),
			want:     "a,€\n",
			encoding: EncodingUTF8,
		},
		{
			name:     "bom short-circuits and is stripped",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte(korean)...),
			want:     korean,
			encoding: EncodingUTF8BOM,
		},
		{
			name:     "ascii decodes as cp949",
			input:    []byte("date,amount\n"),
			want:     "date,amount\n",
			encoding: EncodingCP949,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, enc, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
			assert.Equal(t, tt.encoding, enc)
		})
	}
}

func TestDecode_Undecodable(t *testing.T) {
	_, _, err := Decode([]byte{0xFF, 0xFF, 0xFF})
	assert.ErrorIs(t, err, ErrUndecodable)
}
