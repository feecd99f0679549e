package types

// FileType is the classification of an open file. It decides whether the
// file can be compiled and whether the compiled result can be executed.
type FileType int

const (
	// Text is any file that is not COBOL source
	Text FileType = iota
	// Program is a COBOL main program, compiled to an executable
	Program
	// Subprogram is a COBOL module called by other programs, compiled to a
	// shared object. Subprograms are not independently executable.
	Subprogram
)

// String returns the display name of the file type
func (t FileType) String() string {
	switch t {
	case Program:
		return "Program"
	case Subprogram:
		return "Subprogram"
	default:
		return "Text"
	}
}

// IsCobol reports whether the type designates COBOL source
func (t FileType) IsCobol() bool {
	return t == Program || t == Subprogram
}

// ParseFileType converts a user supplied name into a FileType.
func ParseFileType(s string) (FileType, bool) {
	switch s {
	case "text", "Text", "txt":
		return Text, true
	case "program", "Program", "prog":
		return Program, true
	case "subprogram", "Subprogram", "sub":
		return Subprogram, true
	}
	return Text, false
}
