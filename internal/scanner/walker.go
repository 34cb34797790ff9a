package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"

	"github.com/soyunomas/bytedupes/internal/entities"
)

var (
	// ErrPathNotFound se devuelve cuando el directorio raíz no existe.
	ErrPathNotFound = errors.New("root directory does not exist")
	// ErrNotDirectory se devuelve cuando la raíz existe pero no es un directorio.
	ErrNotDirectory = errors.New("root path is not a directory")
)

// Config define las reglas para el escaneo.
type Config struct {
	MinSize  int64    // Tamaño mínimo en bytes para considerar
	Excludes []string // Nombres de carpetas a ignorar
}

// FileScanner encapsula la lógica de recorrido del sistema de archivos.
type FileScanner struct {
	fs         billy.Filesystem
	cfg        Config
	excludeMap map[string]struct{} // Optimización O(1)
	log        logrus.FieldLogger
}

// New crea una nueva instancia del escáner con configuración.
func New(fsys billy.Filesystem, cfg Config, log logrus.FieldLogger) *FileScanner {
	exMap := make(map[string]struct{}, len(cfg.Excludes))
	for _, e := range cfg.Excludes {
		exMap[e] = struct{}{}
	}

	return &FileScanner{
		fs:         fsys,
		cfg:        cfg,
		excludeMap: exMap,
		log:        log,
	}
}

// Build recorre rootDir en profundidad y devuelve el índice por tamaño.
// Las rutas registradas son absolutas.
func (s *FileScanner) Build(rootDir string) (*entities.SizeIndex, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", rootDir, err)
	}

	info, err := s.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", root, ErrPathNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	s.log.WithField("root", root).Info("escaneando sistema de archivos")

	idx := entities.NewSizeIndex()
	s.walk(root, idx)
	return idx, nil
}

// walk visita un directorio. Los errores de lectura de subdirectorios se
// registran y el recorrido continúa.
func (s *FileScanner) walk(dir string, idx *entities.SizeIndex) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		s.log.WithError(err).WithField("path", dir).Warn("no se pudo leer el directorio")
		return
	}
	sortEntries(entries)

	for _, info := range entries {
		path := filepath.Join(dir, info.Name())

		switch {
		case info.IsDir():
			if _, ok := s.excludeMap[info.Name()]; ok {
				s.log.WithField("path", path).Debug("directorio excluido")
				continue
			}
			s.walk(path, idx)

		case info.Mode().IsRegular():
			if info.Size() < s.cfg.MinSize {
				continue
			}
			idx.Add(entities.FileEntry{Path: path, Size: info.Size()})

		default:
			// Enlaces simbólicos, sockets, dispositivos: fuera de alcance.
			s.log.WithField("path", path).Trace("entrada ignorada")
		}
	}
}

// sortEntries fija el orden de visita por nombre para que el orden de
// inserción en los buckets sea reproducible.
func sortEntries(entries []os.FileInfo) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
}
