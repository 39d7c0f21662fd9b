package persistence

import (
	"calsurf/internal/models"
	"calsurf/internal/persistence/interfaces"
	"calsurf/internal/providers"
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

var ErrUnsupportedVersion = errors.New("unsupported storage version")

// SnapshotSource is the part of the log service the file manager needs.
type SnapshotSource interface {
	GetSnapshot() *models.Storage
	PutUserData(user string, entries []*models.LogEntry)
}

type FileManager struct {
	service    SnapshotSource
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service SnapshotSource, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	storage := f.service.GetSnapshot()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores a snapshot. A missing file is not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err == nil && storage.Users != nil {
		if storage.Version > models.StorageVersion {
			return fmt.Errorf("%w: %d", ErrUnsupportedVersion, storage.Version)
		}
		for user, entries := range storage.Users {
			f.service.PutUserData(user, entries)
		}
		return nil
	}

	// Unversioned files hold a flat list of the default user's entries.
	f.logger.Warnf(providers.TypeApp, "Unversioned log file found, try to migrate")
	var entries []*models.LogEntry
	if err := json.Unmarshal(decompressedData, &entries); err != nil {
		f.logger.Warnf(providers.TypeApp, "Migration failed")
		return err
	}
	f.logger.Warnf(providers.TypeApp, "Migration of %d entries successful", len(entries))
	f.service.PutUserData("", entries)
	return nil
}
