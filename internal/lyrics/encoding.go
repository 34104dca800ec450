package lyrics

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts the bytes of a lyrics file to a UTF-8 string.
// UTF-8 input is returned without its byte order mark. Other input is
// decoded as UTF-16 when it starts with a byte order mark, and as
// Shift_JIS otherwise, the usual encoding of older Japanese .lrc files.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}
	dec := unicode.BOMOverride(japanese.ShiftJIS.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
