package metrics

import (
	"fmt"
	"io"

	"github.com/H0TB0X420/InterchangeDB/pkg/buffer"
)

// PrometheusExporter exports buffer pool and disk metrics in Prometheus
// text format.
// Format: https://prometheus.io/docs/instrumenting/exposition_formats/
type PrometheusExporter struct {
	pool      *buffer.BufferPool
	namespace string
}

// NewPrometheusExporter creates an exporter over the given pool
func NewPrometheusExporter(pool *buffer.BufferPool) *PrometheusExporter {
	return &PrometheusExporter{
		pool:      pool,
		namespace: "interchangedb",
	}
}

// SetNamespace sets the metric namespace prefix
func (pe *PrometheusExporter) SetNamespace(namespace string) {
	pe.namespace = namespace
}

// WriteMetrics writes all metrics to the writer
func (pe *PrometheusExporter) WriteMetrics(w io.Writer) error {
	snap := pe.pool.Stats().Snapshot()

	if err := pe.writeCounter(w, "buffer_cache_hits_total", "Total buffer pool cache hits", snap.CacheHits); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "buffer_cache_misses_total", "Total buffer pool cache misses", snap.CacheMisses); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "buffer_evictions_total", "Total pages evicted from the buffer pool", snap.Evictions); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "buffer_pages_read_total", "Total pages read from disk", snap.PagesRead); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "buffer_pages_written_total", "Total pages written to disk", snap.PagesWritten); err != nil {
		return err
	}

	if err := pe.writeGauge(w, "buffer_pool_size", "Number of frames in the buffer pool", float64(pe.pool.PoolSize())); err != nil {
		return err
	}
	if err := pe.writeGauge(w, "buffer_resident_pages", "Number of pages currently resident", float64(pe.pool.PageCount())); err != nil {
		return err
	}
	if err := pe.writeGauge(w, "buffer_free_frames", "Number of empty frames", float64(pe.pool.FreeFrameCount())); err != nil {
		return err
	}
	if err := pe.writeGauge(w, "buffer_hit_ratio", "Buffer pool cache hit ratio", snap.HitRate()); err != nil {
		return err
	}

	dm := pe.pool.DiskManager()
	if err := pe.writeGauge(w, "disk_page_count", "Number of pages in the database file", float64(dm.PageCount())); err != nil {
		return err
	}
	return pe.writeGauge(w, "disk_file_size_bytes", "Size of the database file in bytes", float64(dm.FileSize()))
}

// writeCounter writes a counter metric with HELP and TYPE comments
func (pe *PrometheusExporter) writeCounter(w io.Writer, name, help string, value uint64) error {
	full := pe.namespace + "_" + name
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", full, help, full, full, value)
	return err
}

// writeGauge writes a gauge metric with HELP and TYPE comments
func (pe *PrometheusExporter) writeGauge(w io.Writer, name, help string, value float64) error {
	full := pe.namespace + "_" + name
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %g\n", full, help, full, full, value)
	return err
}
