// Package detect guesses the text encoding and the classification of files
// before they are opened in a tab.
package detect

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cobide/internal/charset"
	"cobide/internal/log"
	"cobide/pkg/types"

	"github.com/saintfish/chardet"
)

// CobolExtension is the extension of COBOL source files
const CobolExtension = ".cbl"

// subprogramMarker identifies a COBOL subprogram: a procedure division that
// takes parameters.
const subprogramMarker = "PROCEDURE DIVISION USING"

// sampleSize bounds how much of a file is fed to the charset detector
const sampleSize = 1 << 20

// chardet reports a few names the encoding indexes spell differently
var charsetAliases = map[string]string{
	"GB-18030": "GB18030",
}

// DetectEncoding returns the most likely encoding of the file at path. Any
// failure (unreadable file, empty file, no confident answer, an answer the
// charset package cannot use) yields charset.Default.
func DetectEncoding(path string) string {
	f, err := os.Open(path)
	if err != nil {
		log.Debugf("encoding detection: cannot open %s: %v", path, err)
		return charset.Default
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, sampleSize))
	if err != nil {
		log.Debugf("encoding detection: cannot read %s: %v", path, err)
		return charset.Default
	}
	if len(data) == sampleSize && isASCII(data) {
		// the sample stops before the end of the file
		tail, err := nonASCIITail(f)
		if err != nil {
			log.Debugf("encoding detection: cannot read %s: %v", path, err)
			return charset.Default
		}
		if tail != nil {
			data = tail
		}
	}
	return DetectEncodingBytes(data)
}

// nonASCIITail reads r up to the first byte outside seven bit ASCII and
// returns at most sampleSize bytes starting there. It returns nil when the
// rest of r is ASCII.
func nonASCIITail(r io.Reader) ([]byte, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if b >= 0x80 {
			if err := br.UnreadByte(); err != nil {
				return nil, err
			}
			return io.ReadAll(io.LimitReader(br, sampleSize))
		}
	}
}

// DetectEncodingBytes is DetectEncoding for data already in memory
func DetectEncodingBytes(data []byte) string {
	if len(data) == 0 {
		return charset.Default
	}
	if isASCII(data) {
		return "ascii"
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		return charset.Default
	}

	name := result.Charset
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}
	if !charset.Supported(name) {
		log.Debugf("encoding detection: unsupported charset %s", name)
		return charset.Default
	}
	return name
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// DetectFileType classifies the file at path. Files without the COBOL
// extension are Text. COBOL files are Subprograms when a line contains
// "PROCEDURE DIVISION USING" (any case) and Programs otherwise. Read errors
// are swallowed: the classification reached so far is returned.
func DetectFileType(path string) types.FileType {
	if filepath.Ext(path) != CobolExtension {
		return types.Text
	}

	fileType := types.Program
	f, err := os.Open(path)
	if err != nil {
		return fileType
	}
	defer f.Close()

	if containsMarker(f) {
		fileType = types.Subprogram
	}
	return fileType
}

// DetectFileTypeText classifies in-memory COBOL source
func DetectFileTypeText(text string) types.FileType {
	if containsMarker(strings.NewReader(text)) {
		return types.Subprogram
	}
	return types.Program
}

func containsMarker(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if strings.Contains(strings.ToUpper(scanner.Text()), subprogramMarker) {
			return true
		}
	}
	return false
}
