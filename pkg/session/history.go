package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Turn is one prior exchange within a conversation.
type Turn struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// HistoryStore is the injected conversation-memory capability. The
// orchestrator consults it when building prompts; it never blocks a reply.
type HistoryStore interface {
	Append(key string, turns ...Turn)
	RecentTurns(key string, n int) []Turn
}

type conversation struct {
	Key     string    `json:"key"`
	Turns   []Turn    `json:"turns"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// FileHistoryStore keeps a size-bounded turn history per session key, with
// optional JSON file persistence so chat continuity survives restarts.
type FileHistoryStore struct {
	mu       sync.RWMutex
	convs    map[string]*conversation
	storage  string
	maxTurns int
}

// NewFileHistoryStore creates a store bounded to maxTurns per key. With an
// empty storage dir the store is memory-only.
func NewFileHistoryStore(storage string, maxTurns int) *FileHistoryStore {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	hs := &FileHistoryStore{
		convs:    make(map[string]*conversation),
		storage:  storage,
		maxTurns: maxTurns,
	}
	if storage != "" {
		os.MkdirAll(storage, 0755)
		hs.loadAll()
	}
	return hs
}

func (hs *FileHistoryStore) Append(key string, turns ...Turn) {
	if key == "" || len(turns) == 0 {
		return
	}

	hs.mu.Lock()
	conv, ok := hs.convs[key]
	if !ok {
		conv = &conversation{Key: key, Created: time.Now()}
		hs.convs[key] = conv
	}
	conv.Turns = append(conv.Turns, turns...)
	if len(conv.Turns) > hs.maxTurns {
		conv.Turns = conv.Turns[len(conv.Turns)-hs.maxTurns:]
	}
	conv.Updated = time.Now()
	hs.mu.Unlock()

	if hs.storage != "" {
		hs.save(key)
	}
}

func (hs *FileHistoryStore) RecentTurns(key string, n int) []Turn {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	conv, ok := hs.convs[key]
	if !ok || n <= 0 {
		return nil
	}
	turns := conv.Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// sanitizeFilename makes a session key safe as a filename. Keys contain
// ':' (whatsapp scheme) and '+' (E.164 numbers); ':' is the volume
// separator on Windows, so it is replaced. The original key is preserved
// inside the JSON file, so loadAll maps back to the right in-memory key.
func sanitizeFilename(key string) string {
	return strings.ReplaceAll(key, ":", "_")
}

func (hs *FileHistoryStore) save(key string) error {
	filename := sanitizeFilename(key)

	// filepath.IsLocal rejects empty names, "..", absolute paths, and
	// OS-reserved device names. The extra checks reject "." and directory
	// separators so the file always lands directly inside hs.storage.
	if filename == "." || !filepath.IsLocal(filename) || strings.ContainsAny(filename, `/\`) {
		return os.ErrInvalid
	}

	// Snapshot under read lock, then do slow file I/O after unlock.
	hs.mu.RLock()
	conv, ok := hs.convs[key]
	if !ok {
		hs.mu.RUnlock()
		return nil
	}
	snapshot := conversation{
		Key:     conv.Key,
		Created: conv.Created,
		Updated: conv.Updated,
		Turns:   make([]Turn, len(conv.Turns)),
	}
	copy(snapshot.Turns, conv.Turns)
	hs.mu.RUnlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	finalPath := filepath.Join(hs.storage, filename+".json")
	tmp, err := os.CreateTemp(hs.storage, "history-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return err
	}
	cleanup = false
	return nil
}

func (hs *FileHistoryStore) loadAll() {
	entries, err := os.ReadDir(hs.storage)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(hs.storage, entry.Name()))
		if err != nil {
			continue
		}
		var conv conversation
		if err := json.Unmarshal(data, &conv); err != nil || conv.Key == "" {
			continue
		}
		hs.convs[conv.Key] = &conv
	}
}
