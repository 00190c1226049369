package utils

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

type Fs struct {
	AppFs afero.Fs
}

func NewFs(appFs afero.Fs) Fs {
	return Fs{AppFs: appFs}
}

// WriteJSON writes data as indented JSON to dir/fileName, creating dir first.
func (fs Fs) WriteJSON(dir, fileName string, data interface{}) error {
	if err := fs.AppFs.MkdirAll(dir, 0755); err != nil {
		return xerrors.Errorf("unable to create a directory: %w", err)
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to marshal JSON: %w", err)
	}

	f, err := fs.AppFs.Create(filepath.Join(dir, fileName))
	if err != nil {
		return xerrors.Errorf("unable to open a file: %w", err)
	}
	defer f.Close()

	if _, err = f.Write(b); err != nil {
		return xerrors.Errorf("failed to save a file: %w", err)
	}
	return nil
}
