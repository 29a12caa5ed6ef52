package util

import (
	"archive/zip"
	"os"
)

// ZipFiles writes a deflate zip at dest holding one entry per key of files,
// with the mapped value as content.
func ZipFiles(dest string, files map[string][]byte) (err error) {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := zip.NewWriter(file)
	for name, content := range files {
		writer, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		if _, err := writer.Write(content); err != nil {
			return err
		}
	}
	return w.Close()
}
