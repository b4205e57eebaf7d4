package vanilla_test

import (
	"io/fs"
	"testing/fstest"
)

func fsCopy(src fs.FS, dst fstest.MapFS) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		dst[path] = &fstest.MapFile{Data: data}
		return nil
	})
}

func fsReadFile(fsys fs.FS, name string) ([]byte, error) {
	return fs.ReadFile(fsys, name)
}
