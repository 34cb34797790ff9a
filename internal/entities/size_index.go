package entities

import "sort"

// SizeIndex mapea tamaño -> bucket y registra los tamaños con colisión.
// Se construye una vez por ejecución y se lee sin modificar después.
type SizeIndex struct {
	buckets    map[int64]*Bucket
	collisions map[int64]struct{}
}

// NewSizeIndex crea un índice vacío.
func NewSizeIndex() *SizeIndex {
	return &SizeIndex{
		buckets:    make(map[int64]*Bucket),
		collisions: make(map[int64]struct{}),
	}
}

// Add registra un archivo en el bucket de su tamaño. El tamaño entra en el
// conjunto de colisiones en cuanto el bucket recibe su segundo miembro.
func (idx *SizeIndex) Add(f FileEntry) {
	b, exists := idx.buckets[f.Size]
	if !exists {
		b = &Bucket{Size: f.Size}
		idx.buckets[f.Size] = b
	}
	b.Add(f.Path)

	if b.Count() > 1 {
		idx.collisions[f.Size] = struct{}{}
	}
}

// Bucket devuelve el bucket de un tamaño, o nil si no existe.
func (idx *SizeIndex) Bucket(size int64) *Bucket {
	return idx.buckets[size]
}

// IsCollision indica si el tamaño tiene más de un archivo.
func (idx *SizeIndex) IsCollision(size int64) bool {
	_, ok := idx.collisions[size]
	return ok
}

// CollisionSizes devuelve los tamaños con colisión en orden ascendente.
func (idx *SizeIndex) CollisionSizes() []int64 {
	sizes := make([]int64, 0, len(idx.collisions))
	for size := range idx.collisions {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	return sizes
}

// Len devuelve el número de buckets distintos.
func (idx *SizeIndex) Len() int {
	return len(idx.buckets)
}

// Stats calcula los totales: archivos indexados y bytes (tamaño × cantidad).
func (idx *SizeIndex) Stats() ScanStats {
	var st ScanStats
	for size, b := range idx.buckets {
		n := int64(b.Count())
		st.Files += n
		st.Bytes += size * n
	}
	return st
}
