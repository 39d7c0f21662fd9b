package models

const StorageVersion = 1

// Storage is the on-disk snapshot envelope.
type Storage struct {
	Version int                    `json:"version"`
	Users   map[string][]*LogEntry `json:"users"`
}
