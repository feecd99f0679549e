// Package charset converts file bytes to and from text using an encoding
// name as reported by charset detection or stored on a tab.
package charset

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"cobide/internal/errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Default is the encoding used when nothing better is known. Go treats file
// names and text as UTF-8, so that is the platform default here.
const Default = "utf-8"

// Lookup resolves an encoding name. IANA names are tried first so that
// "ISO-8859-1" means Latin-1 rather than the WHATWG windows-1252 alias.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty encoding name")
	}
	if isUTF8(name) {
		return unicode.UTF8, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}

// Supported reports whether name can be used to decode and encode files
func Supported(name string) bool {
	_, err := Lookup(name)
	return err == nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8", "ascii", "us-ascii":
		return true
	}
	return false
}

// Decode converts data to text. Bytes that are not valid in the encoding
// produce a DecodeFailed error instead of silently turning into U+FFFD.
func Decode(data []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", errors.NewFileError("unsupported encoding", name, errors.DecodeFailed, err)
	}

	if enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", errors.NewFileError("invalid utf-8 data", name, errors.DecodeFailed, nil)
		}
		return string(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.NewFileError("cannot decode data", name, errors.DecodeFailed, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) && !bytes.ContainsRune(data, utf8.RuneError) {
		return "", errors.NewFileError("cannot decode data", name, errors.DecodeFailed, nil)
	}
	return string(out), nil
}

// Encode converts text to bytes. Runes the encoding cannot represent produce
// an EncodeFailed error.
func Encode(text string, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, errors.NewFileError("unsupported encoding", name, errors.EncodeFailed, err)
	}
	if enc == unicode.UTF8 {
		if strings.EqualFold(name, "ascii") || strings.EqualFold(name, "us-ascii") {
			for _, r := range text {
				if r > 0x7f {
					return nil, errors.NewFileError("text cannot be encoded", name, errors.EncodeFailed, nil)
				}
			}
		}
		return []byte(text), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, errors.NewFileError("text cannot be encoded", name, errors.EncodeFailed, err)
	}
	return out, nil
}

// ReadFile reads and decodes path
func ReadFile(path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileError("file not found", path, errors.FileNotFound, err)
		}
		if os.IsPermission(err) {
			return "", errors.NewFileError("file access denied", path, errors.FileAccessDenied, err)
		}
		return "", errors.NewFileError("cannot read file", path, errors.FileOperationFailed, err)
	}
	text, err := Decode(data, name)
	if err != nil {
		return "", errors.NewFileError("bad encoding", path, errors.DecodeFailed, err)
	}
	return text, nil
}

// WriteFile encodes text and writes it to path
func WriteFile(path, text, name string) error {
	data, err := Encode(text, name)
	if err != nil {
		return errors.NewFileError("cannot encode file", path, errors.EncodeFailed, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		if os.IsPermission(err) {
			return errors.NewFileError("file access denied", path, errors.FileAccessDenied, err)
		}
		return errors.NewFileError("cannot write file", path, errors.FileOperationFailed, err)
	}
	return nil
}
