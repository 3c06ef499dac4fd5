package payments

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","status":"succeeded","customer":"cus_9","amount":10000,"currency":"usd"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_abc")
	intent, err := client.GetPaymentIntent("pi_123")
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, IntentStatusSucceeded, intent.Status)
	assert.Equal(t, "cus_9", intent.CustomerID)
	assert.Equal(t, int64(10000), intent.Amount)
}

func TestGetSetupIntentErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_abc")
	_, err := client.GetSetupIntent("seti_missing")
	assert.Error(t, err)
}

func TestAttachPaymentMethodSendsForm(t *testing.T) {
	var gotCustomer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment_methods/pm_1/attach", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotCustomer = r.PostFormValue("customer")
		w.Write([]byte(`{"id":"pm_1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_abc")
	require.NoError(t, client.AttachPaymentMethod("pm_1", "cus_9"))
	assert.Equal(t, "cus_9", gotCustomer)
}

func TestUpdateCustomerSkipsEmptyParams(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_abc")
	require.NoError(t, client.UpdateCustomer("cus_9", CustomerParams{}))
	assert.False(t, called)
}
