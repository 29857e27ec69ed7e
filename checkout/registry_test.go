package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsetu-website-api/types"
)

func TestRegistryCreateAndGet(t *testing.T) {
	registry := NewRegistry()

	attempt := registry.Create(true)
	require.NotEmpty(t, attempt.ID)
	assert.True(t, attempt.Available())

	got, ok := registry.Get(attempt.ID)
	require.True(t, ok)
	assert.Same(t, attempt, got)

	_, ok = registry.Get("nope")
	assert.False(t, ok)

	registry.Remove(attempt.ID)
	_, ok = registry.Get(attempt.ID)
	assert.False(t, ok)
}

func TestAttemptOpenPublishesOptions(t *testing.T) {
	attempt := NewRegistry().Create(true)

	assert.Nil(t, attempt.CheckoutOptions())

	opts := types.CheckoutOptions{OrderID: "order_abc", Amount: 100}
	_, err := attempt.Open(context.Background(), opts)
	require.NoError(t, err)

	published := attempt.CheckoutOptions()
	require.NotNil(t, published)
	assert.Equal(t, "order_abc", published.OrderID)
}

func TestAttemptCompleteDeliversOutcome(t *testing.T) {
	attempt := NewRegistry().Create(true)

	outcomes, err := attempt.Open(context.Background(), types.CheckoutOptions{})
	require.NoError(t, err)

	ok := attempt.Complete(types.CheckoutPayload{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "sig",
	})
	assert.True(t, ok)

	select {
	case outcome := <-outcomes:
		require.NotNil(t, outcome.Payload)
		assert.False(t, outcome.Cancelled)
		assert.Equal(t, "pay_xyz", outcome.Payload.RazorpayPaymentID)
	case <-time.After(time.Second):
		t.Fatal("no outcome delivered")
	}
}

func TestAttemptDismissDeliversCancellation(t *testing.T) {
	attempt := NewRegistry().Create(true)

	outcomes, err := attempt.Open(context.Background(), types.CheckoutOptions{})
	require.NoError(t, err)

	assert.True(t, attempt.Dismiss())

	outcome := <-outcomes
	assert.True(t, outcome.Cancelled)
	assert.Nil(t, outcome.Payload)
}

func TestAttemptResolvesOnlyOnce(t *testing.T) {
	attempt := NewRegistry().Create(true)

	assert.True(t, attempt.Complete(types.CheckoutPayload{RazorpayPaymentID: "pay_1"}))
	assert.False(t, attempt.Complete(types.CheckoutPayload{RazorpayPaymentID: "pay_2"}))
	assert.False(t, attempt.Dismiss())
}

func TestAttemptNoticesAccumulate(t *testing.T) {
	attempt := NewRegistry().Create(false)

	assert.Empty(t, attempt.Notices())

	attempt.Notify(Notice{Level: NoticeInfo, Message: "first"})
	attempt.Notify(Notice{Level: NoticeError, Message: "second"})

	notices := attempt.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, "first", notices[0].Message)
	assert.Equal(t, NoticeError, notices[1].Level)
}
