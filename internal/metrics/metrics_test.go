package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreObservations(t *testing.T) {
	c := NewCollector("contacts")

	c.ObserveLoad("/data/contacts_data.json", 3, nil)
	c.ObserveLoad("/data/contacts_data.json", 0, errors.New("corrupt"))
	c.ObserveSave("/data/contacts_data.json", 10*time.Millisecond, nil)
	c.ObserveQuarantine("/data/contacts_data.json")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreLoads.WithLabelValues("contacts_data.json", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreLoads.WithLabelValues("contacts_data.json", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreSaves.WithLabelValues("contacts_data.json", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreQuarantines.WithLabelValues("contacts_data.json")))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveLoad("x", 0, nil)
		c.ObserveSave("x", time.Second, nil)
		c.ObserveQuarantine("x")
		c.RecordMutation("created")
		c.RecordRequest(http.MethodGet, "/", 200, time.Millisecond)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("contacts")
	c.RecordMutation("created")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `contacts_contact_mutations_total{action="created"} 1`)
}
