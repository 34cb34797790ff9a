package engine

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"

	"github.com/soyunomas/bytedupes/internal/comparator"
	"github.com/soyunomas/bytedupes/internal/entities"
	"github.com/soyunomas/bytedupes/internal/scanner"
	"github.com/soyunomas/bytedupes/internal/utils"
)

type Options struct {
	MinSize  int64
	Excludes []string
	Workers  int
	Stages   []int // vacío = comparator.DefaultStages
}

type Result struct {
	Root            string // raíz absoluta escaneada
	Clusters        []entities.Cluster
	Scan            entities.ScanStats
	DuplicatesCount int64
	ReclaimableSize int64
	Comparisons     int64
	BytesCompared   int64
	Duration        time.Duration
}

type Runner struct {
	fs   billy.Filesystem
	opts Options
	log  logrus.FieldLogger
}

func New(fsys billy.Filesystem, opts Options, log logrus.FieldLogger) *Runner {
	return &Runner{fs: fsys, opts: opts, log: log}
}

// Run ejecuta el pipeline completo: índice por tamaño, comparación de bytes
// dentro de cada tamaño con colisión y totales.
func (r *Runner) Run(rootDir string) (*Result, error) {
	start := time.Now()

	// --- PASO 1: ÍNDICE POR TAMAÑO ---
	sc := scanner.New(r.fs, scanner.Config{
		MinSize:  r.opts.MinSize,
		Excludes: r.opts.Excludes,
	}, r.log)

	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", rootDir, err)
	}

	idx, err := sc.Build(root)
	if err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}

	var candidates int
	for _, size := range idx.CollisionSizes() {
		candidates += idx.Bucket(size).Count()
	}
	r.log.WithFields(logrus.Fields{
		"files":      utils.FormatCount(idx.Stats().Files),
		"candidates": utils.FormatCount(int64(candidates)),
		"sizes":      len(idx.CollisionSizes()),
	}).Info("índice construido")

	// --- PASO 2: COMPARACIÓN BYTE A BYTE ---
	cmp := comparator.New(r.fs, r.opts.Stages, r.log)
	cl := NewClusterer(cmp, r.opts.Workers, r.log)
	clusters := cl.Run(idx)

	// --- PASO 3: TOTALES ---
	res := &Result{
		Root:          root,
		Clusters:      clusters,
		Scan:          cl.Stats(),
		Comparisons:   cmp.Comparisons(),
		BytesCompared: cmp.BytesRead(),
	}
	for _, c := range clusters {
		dupes := int64(len(c.Duplicates()))
		res.DuplicatesCount += dupes
		res.ReclaimableSize += dupes * c.Size
	}
	res.Duration = time.Since(start)

	r.log.WithFields(logrus.Fields{
		"clusters":    len(clusters),
		"comparisons": utils.FormatCount(res.Comparisons),
		"read":        utils.ByteCountDecimal(res.BytesCompared),
		"duration":    res.Duration.String(),
	}).Info("comparación terminada")

	return res, nil
}
