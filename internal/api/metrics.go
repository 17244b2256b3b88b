package api

import (
	"bytes"
	"log/slog"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// textContentType is the Prometheus text exposition format 0.0.4.
const textContentType = "text/plain; version=0.0.4; charset=utf-8"

// metrics returns GET /api/v1/metrics: store counters in Prometheus text
// format.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var buf bytes.Buffer
	for _, mf := range h.families() {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			slog.Error("api: encode metrics", "family", mf.GetName(), "err", err)
			jsonErr(w, http.StatusInternalServerError, "metrics encoding failed")
			return
		}
	}

	w.Header().Set("Content-Type", textContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

// families snapshots the store counters as metric families.
func (h *Handler) families() []*dto.MetricFamily {
	s := h.store.Stats()
	fams := []*dto.MetricFamily{
		counter("debugtoolbar_saved_total", "Toolbars written to the store.", float64(s.Saved)),
		counter("debugtoolbar_save_failures_total", "Toolbar writes that failed.", float64(s.SaveFailed)),
		counter("debugtoolbar_pruned_total", "Toolbars removed by retention pruning.", float64(s.Pruned)),
		counter("debugtoolbar_prune_failures_total", "Toolbar deletions that failed.", float64(s.PruneFailed)),
	}

	enabled := 0.0
	if h.settings.Enabled() {
		enabled = 1
	}
	fams = append(fams,
		gauge("debugtoolbar_enabled", "Whether the toolbar is currently enabled.", enabled),
		gauge("debugtoolbar_retention", "Configured number of toolbars to keep.", float64(h.settings.RetentionCount())),
	)

	// The stored gauge is omitted when the store cannot be listed.
	if ids, err := h.store.IDs(); err == nil {
		fams = append(fams, gauge("debugtoolbar_stored", "Toolbars currently in the store.", float64(len(ids))))
	}
	return fams
}

func counter(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   &name,
		Help:   &help,
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: &v}}},
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   &name,
		Help:   &help,
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: &v}}},
	}
}
