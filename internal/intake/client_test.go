package intake

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/boswecw/boswell/internal/contact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload() contact.Payload {
	return contact.Payload{
		FormName:             "contact",
		Name:                 "Ada",
		Email:                "ada@example.com",
		Message:              "hi",
		Timeline:             "1–2 weeks",
		Budget:               "$900 – $1,500",
		ProjectType:          "web-development",
		SelectedPackageID:    "starter",
		SelectedPackageName:  "Starter Website",
		SelectedPackagePrice: "$900 – $1,500",
	}
}

func TestNew(t *testing.T) {
	t.Run("empty endpoint", func(t *testing.T) {
		c, err := New("")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "endpoint is required")
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		c, err := New("not a url")
		assert.Nil(t, c)
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		c, err := New("https://example.com/")
		require.NoError(t, err)
		assert.Equal(t, EncodingForm, c.encoding)
	})
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", EncodingForm, false},
		{"form", EncodingForm, false},
		{"JSON", EncodingJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEncoding(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitForm(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "contact", r.PostForm.Get("form-name"))
		assert.Equal(t, "Ada", r.PostForm.Get("name"))
		assert.Equal(t, "starter", r.PostForm.Get("selectedPackageId"))
		assert.Equal(t, "$900 – $1,500", r.PostForm.Get("selectedPackagePrice"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()), WithUserAgent("test-agent"))
	require.NoError(t, err)

	require.NoError(t, c.Submit(context.Background(), payload()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubmitJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "Starter Website", body["selectedPackageName"])
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithEncoding(EncodingJSON))
	require.NoError(t, err)

	assert.NoError(t, c.Submit(context.Background(), payload()))
}

func TestSubmitNon2xx(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"redirect", http.StatusMovedPermanently},
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			}))
			defer srv.Close()

			noRedirect := &http.Client{
				CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
			}
			c, err := New(srv.URL, WithHTTPClient(noRedirect))
			require.NoError(t, err)

			err = c.Submit(context.Background(), payload())

			var reqErr *contact.RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.status, reqErr.StatusCode)
			assert.Contains(t, reqErr.Error(), http.StatusText(tt.status))
		})
	}
}

func TestSubmitTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)

	err = c.Submit(context.Background(), payload())

	var trErr *contact.TransportError
	require.ErrorAs(t, err, &trErr)
	assert.Contains(t, err.Error(), "intake transport failed")
}
