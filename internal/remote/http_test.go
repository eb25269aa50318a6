package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewHTTPClient(srv.URL, 5*time.Second), srv
}

func TestCreateReward_PostsJSON(t *testing.T) {
	var gotPath string
	var gotEvent domain.RewardEvent

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	ev := domain.RewardEvent{ID: "r1", FamilyID: "fam-1", MemberID: "m1", Source: domain.SourceFasting, Day: 3, Stars: 3}
	require.NoError(t, c.CreateReward(context.Background(), ev))

	assert.Equal(t, "/v1/families/fam-1/rewards", gotPath)
	assert.Equal(t, "r1", gotEvent.ID)
	assert.Equal(t, 3, gotEvent.Stars)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		permanent bool
	}{
		{"validation failure", http.StatusUnprocessableEntity, true},
		{"conflict", http.StatusConflict, true},
		{"bad request", http.StatusBadRequest, true},
		{"request timeout retries", http.StatusRequestTimeout, false},
		{"throttling retries", http.StatusTooManyRequests, false},
		{"server error retries", http.StatusInternalServerError, false},
		{"bad gateway retries", http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})
			defer srv.Close()

			err := c.CreateLog(context.Background(), domain.ActivityLog{
				FamilyID: "fam-1",
				Payload:  domain.CheckInPayload{Mood: "calm"},
			})
			require.Error(t, err)
			assert.Equal(t, tt.permanent, IsPermanent(err))

			var re *Error
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.status, re.Status)
		})
	}
}

func TestFetchAll_NotFound(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer srv.Close()

	_, err := c.FetchAll(context.Background(), "fam-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsPermanent(err))
}

func TestFetchAll_DecodesBundle(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/families/fam-1/snapshot", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"family":  map[string]any{"id": "fam-1", "name": "Al-Noor", "days": 30},
			"members": []map[string]any{{"id": "m1", "family_id": "fam-1", "name": "Yusuf", "type": "kid"}},
			"rewards": []map[string]any{{"id": "r1", "member_id": "m1", "source": "fasting", "day": 1, "stars": 3}},
		})
	})
	defer srv.Close()

	b, err := c.FetchAll(context.Background(), "fam-1")
	require.NoError(t, err)
	assert.Equal(t, "fam-1", b.Family.ID)
	require.Len(t, b.Members, 1)
	assert.Equal(t, domain.MemberTypeKid, b.Members[0].Type)
	require.Len(t, b.Rewards, 1)
	assert.Equal(t, domain.SourceFasting, b.Rewards[0].Source)
}

func TestUpsertMember_ReturnsCanonicalRecord(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var m domain.Member
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		m.ID = "srv-" + m.ID
		json.NewEncoder(w).Encode(m)
	})
	defer srv.Close()

	got, err := c.UpsertMember(context.Background(), domain.Member{
		ID: "local-1", FamilyID: "fam-1", Name: "Hana", Type: domain.MemberTypeLittle,
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-local-1", got.ID)
	assert.Equal(t, "Hana", got.Name)
}

func TestTransportFailure_IsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewHTTPClient(srv.URL, time.Second)
	err := c.CreateConnection(context.Background(), domain.Connection{ID: "c1"})
	require.Error(t, err)
	assert.False(t, IsPermanent(err))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestMalformedResponseBody_IsPermanent(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	defer srv.Close()

	_, err := c.UpdateFamily(context.Background(), domain.Family{ID: "fam-1"})
	require.Error(t, err)
	assert.True(t, IsPermanent(err))
}

func TestIsPermanent_WrappedAndForeignErrors(t *testing.T) {
	wrapped := &Error{Op: "x", Permanent: true}
	assert.True(t, IsPermanent(wrapped))
	assert.False(t, IsPermanent(errors.New("plain")))
	assert.False(t, IsPermanent(nil))
}
