package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Documents.WithLabelValues("ok", "general").Inc()
	m.BankSize.Set(91)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "quizbank_extract_documents_total")
	assert.Contains(t, names, "quizbank_bank_questions")
	assert.Equal(t, 91.0, testutil.ToFloat64(m.BankSize))
}

func TestNewWithoutRegistry(t *testing.T) {
	m := New(nil)
	m.Questions.WithLabelValues("open-ended").Add(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Questions.WithLabelValues("open-ended")))
}
