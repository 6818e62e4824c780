package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"aethon-assistant/models"
)

var snapshotIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// SnapshotStore persists a document's chunks as JSON so a restarted
// process can rebuild the index by re-embedding, skipping extraction.
// Vectors are deliberately not persisted: the embedding model may have
// changed between runs, and stale vectors would poison the index.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore returns nil when dir is empty (snapshots disabled)
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

type snapshot struct {
	Document models.Document `json:"document"`
	Text     string          `json:"text"`
	Chunks   []models.Chunk  `json:"chunks"`
}

// Save writes the document and its chunks to <dir>/<id>_index.json
func (s *SnapshotStore) Save(doc models.Document, chunks []models.Chunk) error {
	if !snapshotIDPattern.MatchString(doc.ID) {
		return fmt.Errorf("invalid document id %q", doc.ID)
	}

	text := doc.Text
	doc.Text = ""
	data, err := json.Marshal(snapshot{Document: doc, Text: text, Chunks: chunks})
	if err != nil {
		return err
	}

	path := s.path(doc.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a previously saved snapshot
func (s *SnapshotStore) Load(documentID string) (models.Document, []models.Chunk, error) {
	if !snapshotIDPattern.MatchString(documentID) {
		return models.Document{}, nil, fmt.Errorf("invalid document id %q", documentID)
	}

	data, err := os.ReadFile(s.path(documentID))
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, nil, fmt.Errorf("no snapshot for document %q", documentID)
		}
		return models.Document{}, nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Document{}, nil, fmt.Errorf("corrupt snapshot for document %q: %w", documentID, err)
	}

	snap.Document.Text = snap.Text
	return snap.Document, snap.Chunks, nil
}

func (s *SnapshotStore) path(documentID string) string {
	return filepath.Join(s.dir, documentID+"_index.json")
}
