package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Subject string `json:"subject" validate:"required,min=5"`
	Day     int    `json:"day" validate:"min=1,max=31"`
}

func TestValidationErrors(t *testing.T) {
	assert.Nil(t, ValidationErrors(&sample{Subject: "Leaking pipe", Day: 5}))

	fields := ValidationErrors(&sample{Subject: "hi", Day: 40})
	assert.Equal(t, map[string]string{"Subject": "min", "Day": "max"}, fields)
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))

		var dst sample
		assert.False(t, DecodeAndValidate(w, r, &dst))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid fields are listed", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"subject":"x","day":3}`))

		var dst sample
		assert.False(t, DecodeAndValidate(w, r, &dst))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "min", body["fields"].(map[string]interface{})["Subject"])
	})

	t.Run("valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"subject":"Broken gate","day":3}`))

		var dst sample
		assert.True(t, DecodeAndValidate(w, r, &dst))
		assert.Equal(t, "Broken gate", dst.Subject)
	})
}
