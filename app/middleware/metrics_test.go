package middleware

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuotePriced(t *testing.T) {
	quotesBefore := testutil.ToFloat64(quotesPricedTotal.WithLabelValues("SAR"))
	rulesBefore := testutil.ToFloat64(rulesAppliedTotal)

	ObserveQuotePriced("SAR", 25*time.Millisecond, 3)
	ObserveQuotePriced("SAR", 10*time.Millisecond, 0)

	assert.Equal(t, quotesBefore+2, testutil.ToFloat64(quotesPricedTotal.WithLabelValues("SAR")))
	assert.Equal(t, rulesBefore+3, testutil.ToFloat64(rulesAppliedTotal))
}

func TestObserveDiscountDecision(t *testing.T) {
	selfBefore := testutil.ToFloat64(discountDecisionsTotal.WithLabelValues("self_approved"))
	routedBefore := testutil.ToFloat64(discountDecisionsTotal.WithLabelValues("routed"))

	ObserveDiscountDecision(true)
	ObserveDiscountDecision(false)
	ObserveDiscountDecision(false)

	assert.Equal(t, selfBefore+1, testutil.ToFloat64(discountDecisionsTotal.WithLabelValues("self_approved")))
	assert.Equal(t, routedBefore+2, testutil.ToFloat64(discountDecisionsTotal.WithLabelValues("routed")))
}
