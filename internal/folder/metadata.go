package folder

import (
	"os"
	"path/filepath"

	"videoannotation/internal/event"
)

const metadataFileName = "metadata.txt"

// MetadataTemplate is the default content of metadata.txt, created on
// first access if the file is absent.
const MetadataTemplate = `name:
date:
location:
researcher:
speaker:
permissions for use given by speaker:
`

// EnsureAndReadMetadata creates metadata.txt with defaultText if it
// does not exist in dir, then returns the current content.
func (m *Manager) EnsureAndReadMetadata(dir, defaultText string) (string, error) {
	path := filepath.Join(dir, metadataFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", classify(err)
	}

	if err := atomicWrite(path, []byte(defaultText)); err != nil {
		return "", classify(err)
	}
	m.logger.Info().Str("path", path).Msg("created metadata file")
	return defaultText, nil
}

// WriteMetadata atomically overwrites metadata.txt in the current
// folder and emits MetadataChanged.
func (m *Manager) WriteMetadata(text string) error {
	dir := m.Folder()
	if dir == "" {
		return ErrNoFolder
	}
	path := filepath.Join(dir, metadataFileName)
	if err := atomicWrite(path, []byte(text)); err != nil {
		return classify(err)
	}
	m.bus.Publish(event.MetadataChanged{Text: text})
	return nil
}

// atomicWrite writes data to a sibling temp file and renames it into
// place, so readers never observe a partial file.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".meta-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
