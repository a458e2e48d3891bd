package router

import (
	"io/fs"
	"net/http"
)

type filesOnly struct {
	fs http.FileSystem
}

// FilesOnly hides directories so the file server never lists them.
func FilesOnly(root http.FileSystem) http.FileSystem {
	return filesOnly{fs: root}
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}

	return file, nil
}
