package verbose

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LevelFor traduce el nivel de detalle 0..3 a un nivel de logrus.
// 0 sólo avisos, 1 progreso, 2 detalle por grupo, 3 cada comparación.
func LevelFor(level int) logrus.Level {
	switch {
	case level <= 0:
		return logrus.WarnLevel
	case level == 1:
		return logrus.InfoLevel
	case level == 2:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// New crea el logger de la herramienta. La salida estándar queda reservada
// para el reporte, así que out suele ser os.Stderr.
func New(out io.Writer, level int) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(LevelFor(level))
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: level < 2,
		FullTimestamp:    true,
	})
	return l
}
