package photo

import (
	"context"
	"crypto/md5" //nolint:gosec // G501: test mirrors the service ETag
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePhoto(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func md5Hex(content string) string {
	sum := md5.Sum([]byte(content)) //nolint:gosec // G401: test only

	return hex.EncodeToString(sum[:])
}

func TestUpload(t *testing.T) {
	const content = "jpeg bytes"

	var (
		gotFile      string
		gotFilename  string
		gotRequestID string
		gotAgent     string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/photos", r.URL.Path)

		file, header, err := r.FormFile(FormField)
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)

			return
		}
		data, _ := io.ReadAll(file)
		gotFile = string(data)
		gotFilename = header.Filename
		gotRequestID = r.Header.Get(RequestIDHeader)
		gotAgent = r.Header.Get("User-Agent")

		_ = json.NewEncoder(w).Encode(map[string]string{"name": "photos/abc", "eTag": `"` + md5Hex(content) + `"`})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.Client(), WithBaseURL(srv.URL+"/"), WithUserAgent("bookworm/test"))

	uploaded, err := client.Upload(context.Background(), writePhoto(t, content))
	require.NoError(t, err)

	assert.Equal(t, "photos/abc", uploaded.Name)
	assert.Equal(t, `"`+md5Hex(content)+`"`, uploaded.ETag)
	assert.Equal(t, content, gotFile)
	assert.Equal(t, "cover.jpg", gotFilename)
	assert.Equal(t, "bookworm/test", gotAgent)

	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err)
}

func TestUploadFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		message string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "bucket unavailable", http.StatusInternalServerError)
			},
			message: "bucket unavailable",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			message: "decode response",
		},
		{
			name: "missing key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"eTag":"x"}`))
			},
			message: "no object key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			client := NewClient(srv.Client(), WithBaseURL(srv.URL))

			_, err := client.Upload(context.Background(), writePhoto(t, "data"))
			require.ErrorIs(t, err, ErrRemote)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestUploadMissingFile(t *testing.T) {
	client := NewClient(nil)

	_, err := client.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetectText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)

		switch r.URL.EscapedPath() {
		case "/photos/photos%2Fabc/text":
			_, _ = w.Write([]byte(`["SAPIENS", "Yuval Noah Harari"]`))
		case "/photos/blank/text":
			_, _ = w.Write([]byte(`[]`))
		case "/photos/null/text":
			_, _ = w.Write([]byte(`null`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.Client(), WithBaseURL(srv.URL))

	fragments, err := client.DetectText(context.Background(), "photos/abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"SAPIENS", "Yuval Noah Harari"}, fragments)

	fragments, err = client.DetectText(context.Background(), "blank")
	require.NoError(t, err)
	assert.Empty(t, fragments)

	fragments, err = client.DetectText(context.Background(), "null")
	require.NoError(t, err)
	assert.NotNil(t, fragments)
	assert.Empty(t, fragments)

	_, err = client.DetectText(context.Background(), "unknown")
	require.ErrorIs(t, err, ErrRemote)

	_, err = client.DetectText(context.Background(), "")
	require.ErrorIs(t, err, ErrRemote)
}

func TestDetectTextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.Client(), WithBaseURL(srv.URL)).DetectText(ctx, "key")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRemote)
}

func TestAuthenticatedClient(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenSrv.Close)

	var gotAuth string
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(apiSrv.Close)

	httpClient := AuthenticatedClient(context.Background(), http.DefaultClient, Credentials{
		TokenURL:     tokenSrv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	_, err := NewClient(httpClient, WithBaseURL(apiSrv.URL)).DetectText(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestAuthenticatedClientDisabled(t *testing.T) {
	base := &http.Client{}

	assert.Same(t, base, AuthenticatedClient(context.Background(), base, Credentials{}))
}
