package studio

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/closset/closset/engine-go/internal/typeid"
)

func requestWithVars(vars map[string]string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return httptest.NewRecorder(), mux.SetURLVars(req, vars)
}

// Malformed ids are rejected at the handler boundary, before any service or
// store call, so a nil service proves the guard short-circuits.
func TestHandler_RejectsMalformedDesignID(t *testing.T) {
	h := NewHandler(nil)

	for _, id := range []string{"", "not-an-id", "user_01h2xcejqtf2nbrexx3vqjhp41", "dsgn_!!!"} {
		rec, req := requestWithVars(map[string]string{"designId": id})
		h.Get(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)
	}
}

func TestHandler_RejectsMalformedMemberID(t *testing.T) {
	h := NewHandler(nil)

	rec, req := requestWithVars(map[string]string{
		"designId": typeid.NewDesignID(),
		"userId":   "dsgn_wrong_prefix",
	})
	h.RemoveMember(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDesignIDVar_AcceptsGeneratedIDs(t *testing.T) {
	id := typeid.NewDesignID()
	rec, req := requestWithVars(map[string]string{"designId": id})

	got, ok := designIDVar(rec, req)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
