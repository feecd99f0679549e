package editor

import (
	"path/filepath"

	"cobide/internal/cobol"
	"cobide/pkg/types"

	"github.com/google/uuid"
)

// Tab is one open file. The concrete type is either *TextTab or *CobolTab;
// only COBOL tabs carry compile and outline support.
type Tab interface {
	ID() string
	Path() string
	Name() string
	Dir() string
	Encoding() string
	SetEncoding(enc string)
	Type() types.FileType
	Buffer() *Buffer
	setPath(path string)
}

type tabBase struct {
	id       string
	path     string
	encoding string
	buffer   *Buffer
}

func newTabBase(path, encoding, text string) tabBase {
	return tabBase{
		id:       uuid.New().String(),
		path:     path,
		encoding: encoding,
		buffer:   NewBuffer(text),
	}
}

func (t *tabBase) ID() string             { return t.id }
func (t *tabBase) Path() string           { return t.path }
func (t *tabBase) Name() string           { return filepath.Base(t.path) }
func (t *tabBase) Dir() string            { return filepath.Dir(t.path) }
func (t *tabBase) Encoding() string       { return t.encoding }
func (t *tabBase) SetEncoding(enc string) { t.encoding = enc }
func (t *tabBase) Buffer() *Buffer        { return t.buffer }
func (t *tabBase) setPath(path string)    { t.path = path }

// TextTab edits a file that is not COBOL
type TextTab struct {
	tabBase
}

// Type is always Text
func (t *TextTab) Type() types.FileType { return types.Text }

// CobolTab edits COBOL source. Errors is attached by the IDE after the tab
// is opened and stays nil until then.
type CobolTab struct {
	tabBase
	fileType types.FileType
	Errors   *cobol.ErrorsManager
	Analyser *cobol.Analyser
}

// Type returns Program or Subprogram
func (t *CobolTab) Type() types.FileType { return t.fileType }

// SetFileType switches between Program and Subprogram. Text is refused.
func (t *CobolTab) SetFileType(ft types.FileType) bool {
	if !ft.IsCobol() {
		return false
	}
	t.fileType = ft
	return true
}

func (t *CobolTab) setPath(path string) {
	t.tabBase.setPath(path)
	t.Analyser.SetName(t.Name())
}

// newTab builds the variant matching fileType
func newTab(path string, fileType types.FileType, encoding, text string) Tab {
	base := newTabBase(path, encoding, text)
	if !fileType.IsCobol() {
		return &TextTab{tabBase: base}
	}
	tab := &CobolTab{tabBase: base, fileType: fileType}
	tab.Analyser = cobol.NewAnalyser(tab.Name())
	return tab
}
