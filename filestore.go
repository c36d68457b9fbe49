package rudder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/tfkr-ae/rudder/domain"
)

// FileStore persists configurations as a single pretty-printed JSON document
// on disk, the same shape GetConfiguration returns: a routes array and a
// clusters array. It is the lightweight alternative to the SQLite repository
// for single-node setups where the config file doubles as documentation.
type FileStore struct {
	Path string // Location of the JSON document.
}

var _ domain.ConfigStorage = (*FileStore)(nil)

// NewFileStore returns a store reading and writing the given path. The file
// does not need to exist yet; parent directories are created on first save.
func NewFileStore(filePath string) *FileStore {
	return &FileStore{Path: filePath}
}

// LoadConfiguration reads the persisted document. A missing file returns
// (nil, nil) so a fresh install starts empty; a document that exists but does
// not parse is an error.
func (fileStore *FileStore) LoadConfiguration() (*domain.Configuration, error) {
	data, err := os.ReadFile(fileStore.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %s : %w", fileStore.Path, err)
	}
	var config domain.Configuration
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration file %s : %w", fileStore.Path, err)
	}
	return &config, nil
}

// SaveConfiguration writes the complete configuration as pretty-printed JSON,
// creating parent directories as needed. Nil collections are written as empty
// arrays so the document always carries both keys.
func (fileStore *FileStore) SaveConfiguration(config *domain.Configuration) error {
	document := domain.Configuration{
		Routes:   config.Routes,
		Clusters: config.Clusters,
	}
	if document.Routes == nil {
		document.Routes = []domain.Route{}
	}
	if document.Clusters == nil {
		document.Clusters = []domain.Cluster{}
	}
	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding configuration : %w", err)
	}
	dir := path.Dir(fileStore.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating configuration dir %s : %w", dir, err)
	}
	if err := os.WriteFile(fileStore.Path, data, 0644); err != nil {
		return fmt.Errorf("writing configuration file %s : %w", fileStore.Path, err)
	}
	return nil
}
