package utils_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

type signupModel struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstname" validate:"required,min=2"`
	LastName  string `json:"lastname" validate:"required,min=1"`
	Password  string `json:"password" validate:"required,strong_password"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		errContains string
	}{
		{
			name:        "Valid JSON",
			requestBody: `{"email":"a@x.com","firstname":"Ann","lastname":"B","password":"Aa1!aaaa"}`,
		},
		{
			name:        "Invalid JSON syntax",
			requestBody: `{"email":a@x.com"}`,
			errContains: "badly-formed JSON",
		},
		{
			name:        "Empty request body",
			requestBody: "",
			errContains: "must not be empty",
		},
		{
			name:        "Unknown field",
			requestBody: `{"email":"a@x.com","role":"admin"}`,
			errContains: "role",
		},
		{
			name:        "Wrong type",
			requestBody: `{"email":42}`,
			errContains: "email",
		},
		{
			name:        "Two objects",
			requestBody: `{"email":"a@x.com"}{"email":"b@x.com"}`,
			errContains: "single JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.requestBody))
			rr := httptest.NewRecorder()

			var m signupModel
			err := utils.DecodeJSON(rr, req, &m)

			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	body := `{"email":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))

	var m signupModel
	err := utils.DecodeJSON(httptest.NewRecorder(), req, &m)

	require.Error(t, err)
	assert.Equal(t, "Request body too large", err.Error())
}

func TestValidateStruct_AggregatesAllFields(t *testing.T) {
	err := utils.ValidateStruct(&signupModel{Email: "not-an-email", FirstName: "A", Password: "weak"})
	require.Error(t, err)

	appErr := utils.ParseError(err)
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.Equal(t, "Validation Error", appErr.Message)
	assert.Len(t, appErr.Details, 4)
	assert.Equal(t, []string{"Invalid Email format"}, appErr.Details["email"])
	assert.Equal(t, []string{"Last name is required"}, appErr.Details["lastname"])
	assert.Contains(t, appErr.Details, "firstname")
	assert.Contains(t, appErr.Details, "password")
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, utils.ValidateStruct(&signupModel{
		Email: "a@x.com", FirstName: "Ann", LastName: "B", Password: "Aa1!aaaa",
	}))
}

func TestDecodeAndValidate(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.com"}`))

	var m signupModel
	err := utils.DecodeAndValidate(httptest.NewRecorder(), req, &m)

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.Equal(t, "a@x.com", m.Email)
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Aa1!aaaa", true},
		{"Aa1!aa", false},
		{"aa1!aaaa", false},
		{"AA1!AAAA", false},
		{"Aab!aaaa", false},
		{"Aa1aaaaa", false},
		{"Aa1!aaa~", false},
		{"Aa1 !aaa", false},
		{`Zz9"{}|<>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.IsStrongPassword(tt.password))
		})
	}
}
