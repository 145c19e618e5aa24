package finder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
)

func TestProxyClient_PayloadShape(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/isochrone", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(squareIsochrone))
	}))
	defer srv.Close()

	pc, err := NewProxyClient(srv.URL+"/", srv.Client())
	require.NoError(t, err)
	body, err := pc.Isochrone(context.Background(), model.ResourceRequest{Address: "a", Mode: "driving-car", Minutes: 20}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, squareIsochrone, string(body))

	assert.JSONEq(t, `{"address":"a","modeOfTransportation":"driving-car","minutes":20}`, string(got["formData"]))
	assert.JSONEq(t, `{"categories":[]}`, string(got["resourceInfo"]))
}

func TestProxyClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"isochrone: upstream status 403","details":"Isochrone Fetch Error"}`))
	}))
	defer srv.Close()

	pc, err := NewProxyClient(srv.URL, srv.Client())
	require.NoError(t, err)
	_, err = pc.Isochrone(context.Background(), model.ResourceRequest{}, []string{"food"})

	var pe *ProxyError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "isochrone: upstream status 403", pe.Error())
	assert.Equal(t, "Isochrone Fetch Error", pe.Details)
}

func TestProxyClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	pc, err := NewProxyClient(srv.URL, srv.Client())
	require.NoError(t, err)
	_, err = pc.Isochrone(context.Background(), model.ResourceRequest{}, nil)
	assert.EqualError(t, err, "proxy status 502")
}
