package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const phoneCSV = `Model,Price,Storage,Camera
A,250,16,12
B,200,16,8
C,300,32,16
D,275,32,8
E,225,16,16
`

func testConfig() *contract.Config {
	return &contract.Config{
		Delimiter:      ',',
		Precision:      4,
		ServeAddr:      "127.0.0.1:0",
		MaxUploadBytes: 1 << 20,
	}
}

func newTestServer(m contract.Mailer) *Server {
	return New(testConfig(), nil, m, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

// rankRequest builds a multipart POST /rank request. An empty csv omits the file.
func rankRequest(t *testing.T, csv string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if csv != "" {
		part, err := mw.CreateFormFile(fieldInputFile, "phones.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(csv))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/rank", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRankJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := rankRequest(t, phoneCSV, map[string]string{fieldWeights: "0.25,0.25,0.5", fieldImpacts: "-,+,+"})
	newTestServer(nil).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp rankResponse
	decodeBody(t, rec, &resp)
	assert.Empty(t, resp.Message)
	require.Len(t, resp.Result.Alternatives, 5)
	assert.Equal(t, "C", resp.Result.Alternatives[0].Label)
	assert.Equal(t, 1, resp.Result.Alternatives[0].Rank)
	assert.InDelta(t, 0.784841, resp.Result.Alternatives[0].Score, 1e-6)
	assert.Equal(t, "B", resp.Result.Alternatives[4].Label)
	assert.Equal(t, []string{"Price", "Storage", "Camera"}, resp.Result.Criteria)
}

func TestRankCSV(t *testing.T) {
	rec := httptest.NewRecorder()
	req := rankRequest(t, phoneCSV, map[string]string{fieldWeights: "0.25,0.25,0.5", fieldImpacts: "-,+,+", fieldFormat: "csv"})
	newTestServer(nil).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "topsis_results.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, "Model,Price,Storage,Camera,Score,Rank", lines[0])
	assert.Equal(t, "C,300,32,16,0.7848,1", lines[1])
}

func TestRankEmail(t *testing.T) {
	m := &mailer.MockMailer{}
	m.On("Send", mock.Anything, mock.MatchedBy(func(msg contract.MailMessage) bool {
		return msg.To == "user@example.com" && msg.AttachmentName == "topsis_results.csv"
	})).Return(nil)

	rec := httptest.NewRecorder()
	req := rankRequest(t, phoneCSV, map[string]string{
		fieldWeights: "0.25,0.25,0.5", fieldImpacts: "-,+,+", fieldEmail: "user@example.com",
	})
	newTestServer(m).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp rankResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "TOPSIS results have been sent to your email.", resp.Message)
	m.AssertExpectations(t)
}

func TestRankErrors(t *testing.T) {
	tests := []struct {
		name        string
		csv         string
		fields      map[string]string
		mailer      contract.Mailer
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing file",
			fields:      map[string]string{fieldWeights: "1,1,1", fieldImpacts: "+,+,+"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "input_file is required",
		},
		{
			name:        "missing weights",
			csv:         phoneCSV,
			fields:      map[string]string{fieldImpacts: "+,+,+"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "weights and impacts are required",
		},
		{
			name:        "unparseable weight",
			csv:         phoneCSV,
			fields:      map[string]string{fieldWeights: "1,abc,1", fieldImpacts: "+,+,+"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "abc",
		},
		{
			name:        "bad email",
			csv:         phoneCSV,
			fields:      map[string]string{fieldWeights: "1,1,1", fieldImpacts: "+,+,+", fieldEmail: "nope"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "email",
		},
		{
			name:        "weight count mismatch",
			csv:         phoneCSV,
			fields:      map[string]string{fieldWeights: "1,1", fieldImpacts: "+,+,+"},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "weights",
		},
		{
			name:        "invalid impact tag",
			csv:         phoneCSV,
			fields:      map[string]string{fieldWeights: "1,1,1", fieldImpacts: "+,x,+"},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "x",
		},
		{
			name:        "too few criteria",
			csv:         "Model,Price,Storage\nA,1,2\nB,2,1\n",
			fields:      map[string]string{fieldWeights: "1,1", fieldImpacts: "+,+"},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "three or more criteria",
		},
		{
			name:        "email without mailer",
			csv:         phoneCSV,
			fields:      map[string]string{fieldWeights: "1,1,1", fieldImpacts: "+,+,+", fieldEmail: "user@example.com"},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer(tt.mailer).Handler().ServeHTTP(rec, rankRequest(t, tt.csv, tt.fields))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp errorResponse
			decodeBody(t, rec, &resp)
			assert.Contains(t, resp.Error, tt.wantMessage)
		})
	}
}

func TestRankMailerFailure(t *testing.T) {
	m := &mailer.MockMailer{}
	m.On("Send", mock.Anything, mock.Anything).Return(errors.New("relay refused"))

	rec := httptest.NewRecorder()
	req := rankRequest(t, phoneCSV, map[string]string{
		fieldWeights: "1,1,1", fieldImpacts: "+,+,+", fieldEmail: "user@example.com",
	})
	newTestServer(m).Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRankUploadTooLarge(t *testing.T) {
	srv := newTestServer(nil)
	srv.cfg.MaxUploadBytes = 64

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, rankRequest(t, phoneCSV+strings.Repeat("F,1,2,3\n", 50), map[string]string{
		fieldWeights: "1,1,1", fieldImpacts: "+,+,+",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rank", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(nil).ListenAndServe(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
