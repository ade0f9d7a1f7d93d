package filesystem

// FileDef is a path with a human-readable description used in logs and errors.
type FileDef struct {
	desc string
	path string
}

type RawFile struct {
	*FileDef
	Content string
}

func NewFileDef(path string) *FileDef {
	return &FileDef{path: path}
}

func (f *FileDef) Path() string {
	return f.path
}

func (f *FileDef) Description() string {
	return f.desc
}

func (f *FileDef) SetDescription(v string) *FileDef {
	f.desc = v
	return f
}

// Label returns "<description> "<path>"", or the quoted path only.
func (f *FileDef) Label() string {
	if f.desc == "" {
		return `"` + f.path + `"`
	}
	return f.desc + ` "` + f.path + `"`
}

func (f *FileDef) ToRawFile(content string) *RawFile {
	return &RawFile{FileDef: f, Content: content}
}

func NewRawFile(path, content string) *RawFile {
	return &RawFile{FileDef: NewFileDef(path), Content: content}
}

func (f *RawFile) SetDescription(v string) *RawFile {
	f.FileDef.SetDescription(v)
	return f
}
