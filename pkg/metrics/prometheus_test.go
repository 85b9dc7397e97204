package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Manager) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestManager_RecordsLedgerActivity(t *testing.T) {
	m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

	m.ObserveRPC("/splitledger.v1.GroupService/GetGroup", "ok", 5*time.Millisecond)
	m.ObserveRPC("/splitledger.v1.GroupService/GetGroup", "ok", 7*time.Millisecond)
	m.ObserveRPC("/splitledger.v1.GroupService/GetGroup", "not_found", time.Millisecond)
	m.IncExpensesRecorded("custom")
	m.IncPaymentsRecorded()
	m.ObserveSettlement(3)
	m.ObserveSettlement(0)

	out := scrape(t, m)
	assert.Contains(t, out, `splitledger_server_rpc_requests_total{code="ok",procedure="/splitledger.v1.GroupService/GetGroup"} 2`)
	assert.Contains(t, out, `splitledger_server_rpc_requests_total{code="not_found",procedure="/splitledger.v1.GroupService/GetGroup"} 1`)
	assert.Contains(t, out, `splitledger_server_rpc_duration_seconds_count{procedure="/splitledger.v1.GroupService/GetGroup"} 3`)
	assert.Contains(t, out, `splitledger_server_expenses_recorded_total{split="custom"} 1`)
	assert.Contains(t, out, "splitledger_server_payments_recorded_total 1")
	assert.Contains(t, out, "splitledger_server_balance_computations_total 2")
	assert.Contains(t, out, "splitledger_server_planned_transfers_total 3")
	assert.NotContains(t, out, "go_goroutines")
}

func TestManager_DisabledAndNil(t *testing.T) {
	m := NewManager(WithMetricsEnabled(false))
	m.ObserveSettlement(4)
	assert.Contains(t, scrape(t, m), "splitledger_server_planned_transfers_total 0")

	var nilManager *Manager
	assert.NotPanics(t, func() {
		nilManager.ObserveRPC("p", "ok", time.Second)
		nilManager.IncExpensesRecorded("equal_all")
		nilManager.IncPaymentsRecorded()
		nilManager.ObserveSettlement(1)
	})
}

func TestManager_DefaultRegistryIncludesRuntime(t *testing.T) {
	m := NewManager(WithNamespace("test"), WithSubsystem("ledger"))
	m.IncPaymentsRecorded()

	out := scrape(t, m)
	assert.Contains(t, out, "test_ledger_payments_recorded_total 1")
	assert.Contains(t, out, "go_goroutines")
}
