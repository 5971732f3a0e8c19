// Package manifest describes finished sprites for the playback runtime.
package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/glizzus/audiospriter/internal/catalog"
	"github.com/glizzus/audiospriter/internal/sprite"
	"github.com/spf13/afero"
)

// FileNameJSON is the name of the document written next to the sprites.
const FileNameJSON = "audioSprites.json"

// Document is the on-disk metadata layout. Field names and order are part of
// the format consumers read.
type Document struct {
	AudioSprites []SpriteFiles `json:"audioSprites"`
	Sounds       []Sound       `json:"sounds"`
}

// SpriteFiles names the renditions of one sprite.
type SpriteFiles struct {
	MP3 string `json:"mp3"`
	OGG string `json:"ogg"`
}

// Sound locates one clip inside a sprite. Times are in seconds.
type Sound struct {
	Filename  string  `json:"filename"`
	AsIndex   int     `json:"asIndex"`
	StartTime float32 `json:"startTime"`
	Duration  float32 `json:"duration"`
}

// FileName is the output file name of sprite index with extension ext.
func FileName(base string, index int, ext string) string {
	return base + "_" + strconv.Itoa(index) + ext
}

// Build describes plan. Sounds are listed in catalog order.
func Build(cat *catalog.Catalog, plan sprite.Plan, base string) Document {
	doc := Document{
		AudioSprites: make([]SpriteFiles, len(plan.Groups)),
		Sounds:       make([]Sound, len(cat.Clips)),
	}
	for _, g := range plan.Groups {
		doc.AudioSprites[g.Index] = SpriteFiles{
			MP3: FileName(base, g.Index, sprite.MP3.Ext),
			OGG: FileName(base, g.Index, sprite.OGG.Ext),
		}
	}
	for _, clip := range cat.Clips {
		a := plan.Assignments[clip.ID]
		doc.Sounds[clip.ID] = Sound{
			Filename:  clip.Name,
			AsIndex:   a.Group,
			StartTime: float32(a.Start),
			Duration:  float32(clip.Duration()),
		}
	}
	return doc
}

// Write stores doc as dir/audioSprites.json. The file is replaced
// atomically so readers never see a partial document.
func Write(fsys afero.Fs, dir string, doc Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}
	data = append(data, '\n')

	tmp, err := afero.TempFile(fsys, dir, ".audioSprites-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := fsys.Chmod(tmpName, 0o644); err != nil {
		fsys.Remove(tmpName)
		return "", fmt.Errorf("failed to set metadata permissions: %w", err)
	}

	path := filepath.Join(dir, FileNameJSON)
	if err := fsys.Rename(tmpName, path); err != nil {
		fsys.Remove(tmpName)
		return "", fmt.Errorf("failed to move metadata into place: %w", err)
	}
	return path, nil
}

// Read loads a document written by Write.
func Read(fsys afero.Fs, path string) (Document, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}
