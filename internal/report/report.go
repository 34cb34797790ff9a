package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/soyunomas/bytedupes/internal/engine"
	"github.com/soyunomas/bytedupes/internal/entities"
	"github.com/soyunomas/bytedupes/internal/utils"
)

// --- ESTRUCTURAS PARA EL REPORTE JSON ---

type Report struct {
	Summary  Summary         `json:"summary"`
	Clusters []ClusterResult `json:"clusters"`
	Metadata Metadata        `json:"metadata"`
}

type Metadata struct {
	ScannedPath string    `json:"scanned_path"`
	Timestamp   time.Time `json:"timestamp"`
	Duration    string    `json:"duration_human"`
}

type Summary struct {
	TotalFilesScanned int64   `json:"total_files_scanned"`
	TotalBytesScanned int64   `json:"total_bytes_scanned"`
	TotalMB           float64 `json:"total_mb"`
	TotalClusters     int     `json:"total_clusters"`
	TotalDuplicates   int64   `json:"total_duplicates"`
	BytesReclaimable  int64   `json:"bytes_reclaimable"`
	BytesReclaimHuman string  `json:"bytes_reclaimable_human"`
	Comparisons       int64   `json:"comparisons"`
	BytesCompared     int64   `json:"bytes_compared"`
}

type ClusterResult struct {
	ID             string   `json:"id"`
	Size           int64    `json:"file_size"`
	Representative string   `json:"representative"`
	Duplicates     []string `json:"duplicates"`
}

// ClusterID identifica un grupo de forma estable entre ejecuciones sobre el
// mismo árbol: xxhash64 de las rutas miembro. No interviene en la detección.
func ClusterID(c entities.Cluster) string {
	h := xxhash.New()
	for _, p := range c.Paths {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Build arma el reporte JSON a partir del resultado del motor.
func Build(res *engine.Result, now time.Time) Report {
	rep := Report{
		Metadata: Metadata{
			ScannedPath: res.Root,
			Timestamp:   now,
			Duration:    res.Duration.String(),
		},
		Summary: Summary{
			TotalFilesScanned: res.Scan.Files,
			TotalBytesScanned: res.Scan.Bytes,
			TotalMB:           roundMB(res.Scan.Bytes),
			TotalClusters:     len(res.Clusters),
			TotalDuplicates:   res.DuplicatesCount,
			BytesReclaimable:  res.ReclaimableSize,
			BytesReclaimHuman: utils.ByteCountDecimal(res.ReclaimableSize),
			Comparisons:       res.Comparisons,
			BytesCompared:     res.BytesCompared,
		},
		Clusters: []ClusterResult{},
	}

	for _, c := range res.Clusters {
		rep.Clusters = append(rep.Clusters, ClusterResult{
			ID:             ClusterID(c),
			Size:           c.Size,
			Representative: c.Representative(),
			Duplicates:     c.Duplicates(),
		})
	}
	return rep
}

// WriteJSON escribe el reporte indentado.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText escribe el formato clásico: cada grupo entre corchetes, una ruta
// por línea, y el bloque de estadísticas al final.
func WriteText(w io.Writer, clusters []entities.Cluster, st entities.ScanStats) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Matching Files:")
	for _, c := range clusters {
		fmt.Fprintf(bw, "[ %s ]\n\n", strings.Join(c.Paths, ",\n  "))
	}

	fmt.Fprintln(bw, "-- Stats --")
	fmt.Fprintf(bw, "Number of files scanned: %d\n", st.Files)
	fmt.Fprintf(bw, "Total data compared:     %.2fMB\n", utils.Megabytes(st.Bytes))

	return bw.Flush()
}

// roundMB redondea a dos decimales, como el informe de texto.
func roundMB(b int64) float64 {
	return math.Round(utils.Megabytes(b)*100) / 100
}
