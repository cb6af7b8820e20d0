package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes every metric in g to path in the Prometheus text
// format, for pickup by the node_exporter textfile collector. The file is
// replaced atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
