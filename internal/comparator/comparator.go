package comparator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
)

// DefaultStages son los tamaños de buffer por pasada. Empiezan pequeños porque
// la mayoría de archivos distintos difieren en los primeros bytes, y crecen
// para leer en bloque los archivos grandes que siguen coincidiendo.
var DefaultStages = []int{64, 255, 4096, 65535, 16777215, 268435456}

// Comparator decide si dos archivos son idénticos byte a byte.
// Es seguro para uso concurrente.
type Comparator struct {
	fs     billy.Filesystem
	stages []int
	log    logrus.FieldLogger

	comparisons atomic.Int64
	bytesRead   atomic.Int64
}

// New crea un comparador. Si stages está vacío se usa DefaultStages.
func New(fsys billy.Filesystem, stages []int, log logrus.FieldLogger) *Comparator {
	if len(stages) == 0 {
		stages = DefaultStages
	}
	return &Comparator{fs: fsys, stages: stages, log: log}
}

// Equal devuelve true si ambos archivos tienen el mismo contenido.
// Nunca falla: un archivo ilegible se registra y se trata como distinto.
func (c *Comparator) Equal(pathA, pathB string) bool {
	c.comparisons.Add(1)

	equal, err := c.compare(pathA, pathB)
	if err != nil {
		c.log.WithError(err).Warn("comparación fallida")
		return false
	}
	c.log.WithFields(logrus.Fields{"a": pathA, "b": pathB, "equal": equal}).Trace("comparado")
	return equal
}

// Comparisons devuelve cuántas llamadas a Equal se hicieron.
func (c *Comparator) Comparisons() int64 {
	return c.comparisons.Load()
}

// BytesRead devuelve el total de bytes leídos de disco por el comparador.
func (c *Comparator) BytesRead() int64 {
	return c.bytesRead.Load()
}

func (c *Comparator) compare(pathA, pathB string) (bool, error) {
	fa, err := c.fs.Open(pathA)
	if err != nil {
		return false, fmt.Errorf("could not open %s: %w", pathA, err)
	}
	defer fa.Close()

	fb, err := c.fs.Open(pathB)
	if err != nil {
		return false, fmt.Errorf("could not open %s: %w", pathB, err)
	}
	defer fb.Close()

	infoA, err := c.fs.Stat(pathA)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", pathA, err)
	}
	infoB, err := c.fs.Stat(pathB)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", pathB, err)
	}

	if infoA.Size() != infoB.Size() {
		return false, nil
	}
	if infoA.Size() == 0 {
		return true, nil
	}

	equal, consumed, err := compareStreams(fa, fb, infoA.Size(), c.stages)
	c.bytesRead.Add(2 * consumed)
	if err != nil {
		return false, fmt.Errorf("reading %s / %s: %w", pathA, pathB, err)
	}
	return equal, nil
}

// stageSize devuelve el tamaño de buffer de la pasada n. Pasado el último
// escalón se sigue usando el mayor.
func stageSize(stages []int, pass int) int {
	if pass >= len(stages) {
		return stages[len(stages)-1]
	}
	return stages[pass]
}

// compareStreams lee ambos flujos por pasadas crecientes y compara cada región.
// expected es la longitud conocida de los archivos (o <0 si se desconoce) y
// sólo sirve para no reservar buffers mayores de lo necesario.
// Devuelve los bytes consumidos de cada flujo hasta el veredicto.
func compareStreams(a, b io.Reader, expected int64, stages []int) (bool, int64, error) {
	var bufA, bufB []byte
	var consumed int64

	for pass := 0; ; pass++ {
		n := stageSize(stages, pass)
		if expected >= 0 {
			// Un byte extra deja ver el fin de archivo en la misma pasada.
			if remaining := expected - consumed; remaining < int64(n) {
				n = int(remaining) + 1
			}
		}
		bufA = grow(bufA, n)
		bufB = grow(bufB, n)

		na, errA := io.ReadFull(a, bufA)
		nb, errB := io.ReadFull(b, bufB)
		if err := readErr(errA); err != nil {
			return false, consumed, err
		}
		if err := readErr(errB); err != nil {
			return false, consumed, err
		}
		consumed += int64(max(na, nb))

		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, consumed, nil
		}

		eofA := errA != nil
		eofB := errB != nil
		if eofA && eofB {
			return true, consumed, nil
		}
		if eofA != eofB {
			return false, consumed, nil
		}
	}
}

// readErr filtra los fines de archivo esperados de io.ReadFull.
func readErr(err error) error {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}

func grow(buf []byte, n int) []byte {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]byte, n)
}
