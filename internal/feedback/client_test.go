package feedback

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"instareview-reports-go/internal/logger"
)

const recordsBody = `[{"id": "r-1", "companyId": "acme-1", "quess": [{"question": "Q1", "answer": 4, "questionId": "q1"}]}]`

func TestFetchSuccess(t *testing.T) {
	var gotCompany string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCompany = r.URL.Query().Get("companyId")
		fmt.Fprint(w, recordsBody)
	}))
	defer srv.Close()

	records, err := NewClient(srv.URL).Fetch(context.Background(), "acme-1", logger.Discard())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "acme-1", gotCompany)
	assert.Equal(t, "acme-1", records[0].CompanyID)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, recordsBody)
	}))
	defer srv.Close()

	records, err := NewClient(srv.URL).Fetch(context.Background(), "acme-1", logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, records, 1)
}

func TestFetchClientErrorIsPermanent(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "acme-1", logger.Discard())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchDecodeFailureIsPermanent(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "acme-1", logger.Discard())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "decode reviews response")
}

func TestFetchGivesUpAfterRetryBudget(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "acme-1", logger.Discard())
	require.Error(t, err)
	// Initial attempt plus three retries.
	assert.Equal(t, 4, calls)
}

func TestFetchWithoutConfiguredURL(t *testing.T) {
	_, err := NewClient("").Fetch(context.Background(), "acme-1", logger.Discard())
	assert.Error(t, err)
}
