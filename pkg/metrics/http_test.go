package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestObserveRecordsRequest(t *testing.T) {
	m := NewHTTPMetrics()

	m.Observe("GET", "/contracts", 200, 150*time.Millisecond)
	m.Observe("GET", "/contracts", 200, 50*time.Millisecond)
	m.Observe("POST", "/disputes", 403, 10*time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	counter, ok := byName["http_requests_total"]
	if !ok {
		t.Fatal("http_requests_total not registered")
	}

	var contractHits float64
	for _, metric := range counter.GetMetric() {
		labels := map[string]string{}
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
		if labels["route"] == "/contracts" && labels["status"] == "200" {
			contractHits = metric.GetCounter().GetValue()
		}
	}
	if contractHits != 2 {
		t.Fatalf("expected 2 contract hits, got %v", contractHits)
	}

	if _, ok := byName["http_request_duration_seconds"]; !ok {
		t.Fatal("duration histogram not registered")
	}
}

func TestObserveNormalizesEmptyRoute(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe("GET", "", 404, time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == "route" && pair.GetValue() != "unknown" {
					t.Fatalf("expected unknown route label, got %q", pair.GetValue())
				}
			}
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Second)
	done := m.TrackInFlight()
	done()
	if m.Handler() == nil {
		t.Fatal("handler should never be nil")
	}
}
