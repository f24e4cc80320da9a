package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/legalaudit/crvc/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePrimaryXMLSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><akomaNtoso><meta><FRBRname value="R v Smith"/></meta></akomaNtoso>`))
	}))
	defer srv.Close()

	v := New(http.DefaultClient)
	result, err := v.Validate(context.Background(), srv.URL+"/case.xml", models.SourcePrimaryArchive)
	require.NoError(t, err)
	assert.True(t, result.Exists)
}

func TestValidateSecondaryTooShortFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>judgment court justice appeal</body></html>"))
	}))
	defer srv.Close()

	v := New(http.DefaultClient)
	result, err := v.Validate(context.Background(), srv.URL, models.SourceSecondaryArchive)
	require.NoError(t, err)
	assert.False(t, result.Exists, "body is under 3000 bytes so must fail despite having legal terms")
}

func TestValidateNotFoundMarkerFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>" + strings.Repeat("Page Not Found. ", 5) + "</body></html>"))
	}))
	defer srv.Close()

	v := New(http.DefaultClient)
	result, err := v.Validate(context.Background(), srv.URL, models.SourceSecondaryArchive)
	require.NoError(t, err)
	assert.False(t, result.Exists)
}
