package fileindex

import (
	"os"
	"path/filepath"
	"time"

	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// Scan walks every file under adapter's source and ancillary roots,
// inferring each file's FileType, and returns a freshly populated Index.
// Directories are recorded as directory placeholders so public listings can
// reflect empty directories. It does not descend into the removed or
// system areas, which are internal bookkeeping, not part of the
// submission's content.
func Scan(adapter storage.Adapter) (*Index, error) {
	idx := New()
	for _, area := range []storage.Area{storage.AreaSource, storage.AreaAncillary} {
		if err := scanArea(idx, adapter, area); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func scanArea(idx *Index, adapter storage.Adapter, area storage.Area) error {
	root := adapter.Root(area)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}
	return filepath.Walk(root, func(full string, walkInfo os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if full == root {
			return nil
		}
		rel, err := filepath.Rel(root, full)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if walkInfo.IsDir() {
			idx.Add(&UserFile{
				Path:        rel,
				Area:        area,
				Type:        filetype.Directory,
				ModTime:     walkInfo.ModTime(),
				IsDirectory: true,
			})
			return nil
		}

		p := storage.Path{Area: area, Rel: rel}
		var ft filetype.FileType
		var size int64 = walkInfo.Size()
		if size == 0 {
			ft = filetype.Ignore
		} else {
			f, err := adapter.Open(p, os.O_RDONLY)
			if err != nil {
				return err
			}
			ft, err = filetype.Infer(rel, size, f)
			f.Close()
			if err != nil {
				return err
			}
		}

		idx.Add(&UserFile{
			Path:    rel,
			Area:    area,
			Type:    ft,
			Size:    size,
			ModTime: walkInfo.ModTime(),
		})
		return nil
	})
}

// RefreshEntry re-reads a single file's size, mtime, and inferred type from
// disk, used after a checker rewrites a file's content in place.
func RefreshEntry(adapter storage.Adapter, f *UserFile) error {
	p := storage.Path{Area: f.Area, Rel: f.Path}
	size, err := adapter.Size(p)
	if err != nil {
		return err
	}
	modUnix, err := adapter.ModTime(p)
	if err != nil {
		return err
	}
	f.Size = size
	f.ModTime = time.Unix(modUnix, 0).UTC()
	if size == 0 {
		f.Type = filetype.Ignore
		return nil
	}
	file, err := adapter.Open(p, os.O_RDONLY)
	if err != nil {
		return err
	}
	defer file.Close()
	ft, err := filetype.Infer(f.Path, size, file)
	if err != nil {
		return err
	}
	f.Type = ft
	return nil
}
