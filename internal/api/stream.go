package api

import (
	"errors"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	http "github.com/bogdanfinn/fhttp"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apierrors "github.com/diogo/lgclient/internal/errors"
)

// readBufferSize is the size of each read from the decoded stream
const readBufferSize = 4096

var errInvalidUTF8 = errors.New("invalid UTF-8 byte sequence")

// fragments returns the body as a lazy sequence of decoded text fragments, in
// the order the transport delivers them. A multi-byte rune split across two
// reads is held back until it is complete, so the concatenated output does
// not depend on chunk boundaries. The sequence is single use.
//
// In lenient mode a leading BOM is dropped and malformed bytes decode to
// U+FFFD. In strict mode malformed bytes end
// the sequence with a *errors.DecodeError.
func fragments(body io.Reader, strict bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if body == nil || body == http.NoBody {
			return
		}

		var t transform.Transformer = unicode.UTF8BOM.NewDecoder()
		if strict {
			t = strictUTF8{}
		}

		r := transform.NewReader(body, t)
		buf := make([]byte, readBufferSize)
		var offset int64

		for {
			n, err := r.Read(buf)
			if n > 0 {
				offset += int64(n)
				if !yield(string(buf[:n]), nil) {
					return
				}
			}

			switch {
			case err == nil:
				continue
			case err == io.EOF:
				return
			case errors.Is(err, errInvalidUTF8):
				yield("", apierrors.NewDecodeError(offset, err))
				return
			default:
				yield("", err)
				return
			}
		}
	}
}

// collect concatenates a fragment sequence, stopping at the first error
func collect(seq iter.Seq2[string, error]) (string, error) {
	var sb strings.Builder
	for fragment, err := range seq {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(fragment)
	}
	return sb.String(), nil
}

// strictUTF8 copies valid UTF-8 and fails on the first malformed sequence
type strictUTF8 struct {
	transform.NopResetter
}

// Transform implements transform.Transformer
func (strictUTF8) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		size := 1
		if src[nSrc] >= utf8.RuneSelf {
			var r rune
			r, size = utf8.DecodeRune(src[nSrc:])
			if r == utf8.RuneError && size == 1 {
				if !atEOF && !utf8.FullRune(src[nSrc:]) {
					return nDst, nSrc, transform.ErrShortSrc
				}
				return nDst, nSrc, errInvalidUTF8
			}
		}

		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}
