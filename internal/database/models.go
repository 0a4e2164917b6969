package database

import "sort"

// DefaultFilename is the name of the index file inside the watched root.
const DefaultFilename = "IW_database.json"

// ImageRecord holds the intrinsic attributes and embedded text metadata of
// one image file.
type ImageRecord struct {
	Path              string            `json:"path"`
	FileSize          int64             `json:"file_size"`
	Width             int               `json:"width"`
	Height            int               `json:"height"`
	Format            string            `json:"format"`
	ModifiedTime      string            `json:"modified_time"`
	ModifiedTimeStamp float64           `json:"modified_time_stamp"`
	Metadata          map[string]string `json:"metadata"`
}

// Clone returns a deep copy of the record.
func (r *ImageRecord) Clone() *ImageRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Metadata = make(map[string]string, len(r.Metadata))
	for k, v := range r.Metadata {
		c.Metadata[k] = v
	}
	return &c
}

// Index maps absolute image paths to their records.
type Index map[string]*ImageRecord

// Clone returns a deep copy of the index. A nil index clones to an empty one.
func (idx Index) Clone() Index {
	c := make(Index, len(idx))
	for path, rec := range idx {
		c[path] = rec.Clone()
	}
	return c
}

// Paths returns the indexed paths in ascending order.
func (idx Index) Paths() []string {
	paths := make([]string, 0, len(idx))
	for path := range idx {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
