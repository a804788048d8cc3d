package ingest

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

// Encoding names reported in FileStats.
const (
	EncodingUTF8BOM = "utf-8-sig"
	EncodingCP949   = "cp949"
	EncodingUTF8    = "utf-8"
	EncodingXLSX    = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrUndecodable is returned when data is neither CP949 nor UTF-8.
var ErrUndecodable = errors.New("content is neither cp949 nor utf-8")

// Decode converts raw file bytes to UTF-8 and reports the source encoding.
func Decode(data []byte) ([]byte, string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], EncodingUTF8BOM, nil
	}

	if out, ok := decodeCP949(data); ok {
		return out, EncodingCP949, nil
	}

	if utf8.Valid(data) {
		return data, EncodingUTF8, nil
	}

	return nil, "", ErrUndecodable
}

// decodeCP949 decodes strictly: the x/text decoder substitutes U+FFFD for
// invalid sequences, so any replacement rune in the output is a failure.
func decodeCP949(data []byte) ([]byte, bool) {
	out, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err != nil {
		return nil, false
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return nil, false
	}
	return out, true
}
