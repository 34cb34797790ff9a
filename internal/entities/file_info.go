package entities

// FileEntry representa un archivo regular descubierto durante el recorrido.
type FileEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size_bytes"`
}

// Bucket agrupa las rutas que comparten tamaño, en orden de inserción.
type Bucket struct {
	Size  int64    `json:"size_bytes"`
	Paths []string `json:"paths"`
}

// Add agrega una ruta al bucket
func (b *Bucket) Add(path string) {
	b.Paths = append(b.Paths, path)
}

// Count devuelve el número de rutas del bucket
func (b *Bucket) Count() int {
	return len(b.Paths)
}

// Cluster es un grupo de archivos idénticos byte a byte.
// Paths[0] es el representante; el resto sigue el orden del bucket.
type Cluster struct {
	Size  int64    `json:"file_size"`
	Paths []string `json:"paths"`
}

// Representative devuelve la primera ruta del grupo.
func (c Cluster) Representative() string {
	if len(c.Paths) == 0 {
		return ""
	}
	return c.Paths[0]
}

// Duplicates devuelve todas las rutas salvo el representante.
func (c Cluster) Duplicates() []string {
	if len(c.Paths) < 2 {
		return nil
	}
	return c.Paths[1:]
}

// ScanStats son los totales del índice una vez terminado el recorrido.
type ScanStats struct {
	Files int64 `json:"files_scanned"`
	Bytes int64 `json:"bytes_scanned"`
}
