package datalayer

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var contentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".json": "application/json",
}

// Publisher uploads finished sprite files to blob storage.
type Publisher struct {
	FS      afero.Fs
	Storage BlobStorage
	// Prefix is prepended to every key, e.g. "game/sfx".
	Prefix string
}

// Key is the storage key a local file is published under.
func (p *Publisher) Key(localPath string) string {
	name := filepath.Base(localPath)
	prefix := strings.Trim(p.Prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Publish uploads each file in order and returns the keys written. It stops
// at the first failure; files already uploaded stay in place.
func (p *Publisher) Publish(ctx context.Context, paths ...string) ([]string, error) {
	keys := make([]string, 0, len(paths))
	for _, local := range paths {
		key := p.Key(local)
		if err := p.put(ctx, local, key); err != nil {
			return keys, fmt.Errorf("failed to publish %s: %w", local, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *Publisher) put(ctx context.Context, local, key string) error {
	f, err := p.FS.Open(local)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	contentType, ok := contentTypes[strings.ToLower(filepath.Ext(local))]
	if !ok {
		contentType = "application/octet-stream"
	}

	return p.Storage.Put(ctx, key, f, PutOptions{
		Size:        info.Size(),
		ContentType: contentType,
	})
}
