package engine

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/soyunomas/bytedupes/internal/entities"
)

// Equaler compara dos archivos por contenido.
type Equaler interface {
	Equal(pathA, pathB string) bool
}

// Clusterer agrupa los archivos de cada tamaño con colisión en grupos de
// archivos idénticos.
type Clusterer struct {
	eq      Equaler
	workers int
	log     logrus.FieldLogger

	stats entities.ScanStats
}

// NewClusterer crea un agrupador. Con workers <= 1 todo corre en secuencia.
func NewClusterer(eq Equaler, workers int, log logrus.FieldLogger) *Clusterer {
	if workers < 1 {
		workers = 1
	}
	return &Clusterer{eq: eq, workers: workers, log: log}
}

// Run procesa los tamaños con colisión en orden ascendente y devuelve los
// grupos en el orden en que se forman. El resultado no depende de workers.
func (c *Clusterer) Run(idx *entities.SizeIndex) []entities.Cluster {
	c.stats = idx.Stats()

	sizes := idx.CollisionSizes()
	perGroup := make([][]entities.Cluster, len(sizes))

	if c.workers == 1 || len(sizes) < 2 {
		for i, size := range sizes {
			perGroup[i] = c.clusterBucket(idx.Bucket(size))
		}
	} else {
		c.runParallel(idx, sizes, perGroup)
	}

	var clusters []entities.Cluster
	for _, group := range perGroup {
		clusters = append(clusters, group...)
	}
	return clusters
}

// Stats devuelve los totales del índice procesado en la última llamada a Run.
func (c *Clusterer) Stats() entities.ScanStats {
	return c.stats
}

// runParallel reparte los grupos entre workers. Cada resultado se guarda en
// su posición para que la emisión conserve el orden por tamaño.
func (c *Clusterer) runParallel(idx *entities.SizeIndex, sizes []int64, out [][]entities.Cluster) {
	jobs := make(chan int, len(sizes))
	var wg sync.WaitGroup

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = c.clusterBucket(idx.Bucket(sizes[i]))
			}
		}()
	}

	for i := range sizes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// clusterBucket toma cada ruta aún no emparejada como representante y la
// compara con las posteriores no emparejadas. Una ruta emparejada nunca vuelve
// a ser representante ni aparece en otro grupo. Los miembros se comparan sólo
// con el representante: basta porque la igualdad de bytes es transitiva.
func (c *Clusterer) clusterBucket(b *entities.Bucket) []entities.Cluster {
	if b == nil || b.Count() < 2 {
		return nil
	}

	matched := make(map[string]struct{}, b.Count())
	var clusters []entities.Cluster

	for i, rep := range b.Paths {
		if _, done := matched[rep]; done {
			continue
		}

		var members []string
		for _, cand := range b.Paths[i+1:] {
			if _, done := matched[cand]; done {
				continue
			}
			if c.eq.Equal(rep, cand) {
				members = append(members, cand)
				matched[cand] = struct{}{}
			}
		}

		if len(members) == 0 {
			continue
		}
		matched[rep] = struct{}{}

		paths := make([]string, 0, len(members)+1)
		paths = append(paths, rep)
		paths = append(paths, members...)
		clusters = append(clusters, entities.Cluster{Size: b.Size, Paths: paths})
	}

	c.log.WithFields(logrus.Fields{
		"size":     b.Size,
		"files":    b.Count(),
		"clusters": len(clusters),
	}).Debug("grupo procesado")

	return clusters
}
