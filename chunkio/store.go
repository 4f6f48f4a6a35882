// Package chunkio persists encoded chunks to a directory tree, the way a CDC
// writer hands chunks to object storage. Chunks are compressed at rest with
// one of the compress codecs and named by the xxHash64 of their uncompressed
// bytes, so rewriting identical content is idempotent.
//
// The store never cracks a chunk payload: compaction candidates are selected
// from header statistics alone.
package chunkio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/graphcol/chunk"
	"github.com/arloliu/graphcol/compress"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
	"github.com/arloliu/graphcol/internal/hash"
)

// Extension carried by every stored chunk, before any compression suffix.
const chunkExt = ".gcol"

var compressionExts = map[format.CompressionType]string{
	format.CompressionNone: "",
	format.CompressionZstd: ".zst",
	format.CompressionS2:   ".s2",
	format.CompressionLZ4:  ".lz4",
}

// Store reads and writes chunks under a base directory, one subdirectory per
// namespace.
type Store struct {
	dir         string
	compression format.CompressionType
	codec       compress.Codec
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompression selects the at-rest compression codec. The default is S2.
func WithCompression(t format.CompressionType) StoreOption {
	return func(s *Store) {
		s.compression = t
	}
}

// NewStore opens (creating if needed) a chunk store rooted at dir.
func NewStore(dir string, opts ...StoreOption) (*Store, error) {
	s := &Store{dir: dir, compression: format.CompressionS2}
	for _, opt := range opts {
		opt(s)
	}

	codec, err := compress.GetCodec(s.compression)
	if err != nil {
		return nil, err
	}
	s.codec = codec

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	return s, nil
}

// Write stores an encoded chunk under its namespace and returns the path it
// was written to. The file name is derived from the chunk content, so
// writing the same chunk twice is a no-op that returns the same path.
func (s *Store) Write(namespace string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errs.BadArgument("empty chunk")
	}
	if strings.ContainsAny(namespace, `/\`) {
		return "", errs.BadArgument("namespace must not contain path separators")
	}

	name := fmt.Sprintf("%016x%s%s", hash.Sum(data), chunkExt, compressionExts[s.compression])
	nsDir := filepath.Join(s.dir, namespace)
	if err := os.MkdirAll(nsDir, 0o755); err != nil {
		return "", fmt.Errorf("create namespace directory: %w", err)
	}

	compressed, err := s.codec.Compress(data)
	if err != nil {
		return "", fmt.Errorf("compress chunk: %w", err)
	}

	path := filepath.Join(nsDir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	// Write through a temp file so readers never observe a partial chunk.
	tmp, err := os.CreateTemp(nsDir, name+".tmp*")
	if err != nil {
		return "", fmt.Errorf("create temp chunk: %w", err)
	}
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return "", fmt.Errorf("write chunk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close chunk: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("publish chunk: %w", err)
	}

	return path, nil
}

// Read loads a stored chunk and returns its uncompressed bytes. The codec is
// selected from the file extension, so a store handle can read chunks
// written with any compression setting.
func (s *Store) Read(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	codec, err := codecForPath(path)
	if err != nil {
		return nil, err
	}

	return codec.Decompress(raw)
}

// Paths returns every chunk path in the store, sorted for deterministic
// replay order.
func (s *Store) Paths() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.Contains(d.Name(), chunkExt) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)

	return paths, nil
}

// Scan reads every chunk in the store in path order and passes its
// uncompressed bytes to fn. A restore pipeline decodes each chunk and
// replays the triples.
func (s *Store) Scan(fn func(path string, data []byte) error) error {
	paths, err := s.Paths()
	if err != nil {
		return err
	}

	for _, path := range paths {
		data, err := s.Read(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}

	return nil
}

// StatsAll reads the header statistics of every chunk concurrently.
func (s *Store) StatsAll() (map[string]chunk.Stats, error) {
	paths, err := s.Paths()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	stats := make(map[string]chunk.Stats, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		g.Go(func() error {
			data, err := s.Read(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			st, err := chunk.ReadStats(data)
			if err != nil {
				return fmt.Errorf("stats %s: %w", path, err)
			}

			mu.Lock()
			stats[path] = st
			mu.Unlock()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}

// CompactionCandidates returns the paths of chunks holding at most
// maxTriples triples, sorted by triple count ascending so the smallest
// chunks merge first. Selection uses header statistics only.
func (s *Store) CompactionCandidates(maxTriples int) ([]string, error) {
	stats, err := s.StatsAll()
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(stats))
	for path, st := range stats {
		if st.TripleCount <= maxTriples {
			candidates = append(candidates, path)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		si, sj := stats[candidates[i]], stats[candidates[j]]
		if si.TripleCount != sj.TripleCount {
			return si.TripleCount < sj.TripleCount
		}

		return candidates[i] < candidates[j]
	})

	return candidates, nil
}

// codecForPath selects the decompression codec from the file extension.
func codecForPath(path string) (compress.Codec, error) {
	switch filepath.Ext(path) {
	case chunkExt:
		return compress.GetCodec(format.CompressionNone)
	case ".zst":
		return compress.GetCodec(format.CompressionZstd)
	case ".s2":
		return compress.GetCodec(format.CompressionS2)
	case ".lz4":
		return compress.GetCodec(format.CompressionLZ4)
	default:
		return nil, errs.BadArgument(fmt.Sprintf("unrecognized chunk extension on %s", path))
	}
}
