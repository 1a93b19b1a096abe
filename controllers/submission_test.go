package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

func readerContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set("userID", 42)
	c.Set("role", models.RoleReader)
	return c, recorder
}

// The detail endpoint checks the permission matrix before touching the
// database: a READER session is refused outright and the manuscript, author
// identity included, never leaves the server.
func TestGetSubmissionDeniedWithoutReadGrant(t *testing.T) {
	c, recorder := readerContext(t, http.MethodGet, "/api/v1/submissions/4")
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	GetSubmission(c)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", recorder.Code)
	}
	body := recorder.Body.String()
	if strings.Contains(body, "author") || strings.Contains(body, "submission_code") {
		t.Errorf("denied response leaked submission content: %s", body)
	}
}

// The list endpoint enforces the same gate.
func TestGetSubmissionsDeniedWithoutReadGrant(t *testing.T) {
	c, recorder := readerContext(t, http.MethodGet, "/api/v1/submissions")

	GetSubmissions(c)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", recorder.Code)
	}
}
