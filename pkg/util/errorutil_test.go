package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	FullName        string  `json:"fullName" validate:"required,min=2"`
	Email           string  `json:"email" validate:"required,email"`
	Category        string  `json:"category" validate:"omitempty,oneof=news update"`
	MaxParticipants *int    `json:"maxParticipants" validate:"omitempty,min=1"`
	Title           *string `json:"title" validate:"omitempty,min=3"`
}

func TestValidateStruct_ListsEveryField(t *testing.T) {
	zero := 0
	short := "ab"
	err := ValidateStruct(sampleRequest{
		FullName:        "",
		Email:           "not-an-email",
		Category:        "gossip",
		MaxParticipants: &zero,
		Title:           &short,
	})
	require.Error(t, err)

	de := ToDomainError(err)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)

	fields, ok := de.Details.([]FieldError)
	require.True(t, ok)
	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "Full name is required", byField["fullName"])
	assert.Equal(t, "Please provide a valid email", byField["email"])
	assert.Equal(t, "Invalid category", byField["category"])
	assert.Equal(t, "Max participants must be at least 1", byField["maxParticipants"])
	assert.Equal(t, "Title must be at least 3 characters", byField["title"])
}

func TestValidateStruct_NilPointersSkipped(t *testing.T) {
	err := ValidateStruct(sampleRequest{FullName: "Ada", Email: "ada@example.com"})
	assert.NoError(t, err)
}

func TestToDomainError_Mapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain passthrough", NewForbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain", fmt.Errorf("load: %w", NewNotFound("Event")), CodeNotFound, http.StatusNotFound},
		{"no rows", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, CodeConflict, http.StatusBadRequest},
		{"deadline", fmt.Errorf("list events: %w", context.DeadlineExceeded), CodeTimeout, http.StatusServiceUnavailable},
		{"upstream", NewUpstreamError("image host failed", errors.New("timeout")), CodeUpstream, http.StatusBadGateway},
		{"unknown", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", ErrCapacityExceeded)
	assert.True(t, errors.Is(wrapped, ErrCapacityExceeded))
	assert.False(t, errors.Is(wrapped, ErrAlreadyRegistered))
}

func TestUniqueViolationField(t *testing.T) {
	field, ok := UniqueViolationField(&pgconn.PgError{Code: "23505", ConstraintName: "team_members_email_key"})
	require.True(t, ok)
	assert.Equal(t, "email", field)

	_, ok = UniqueViolationField(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)
}

type trimmedRequest struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Bio      *string `json:"bio"`
	Password string  `json:"password" trim:"-"`
	Links    struct {
		GitHub *string `json:"github"`
	} `json:"links"`
}

func TestTrimStrings_BeforeValidation(t *testing.T) {
	bio := "  Lead  "
	gh := " https://github.com/ada "
	req := trimmedRequest{Name: "   ", Bio: &bio, Password: " secret "}
	req.Links.GitHub = &gh

	TrimStrings(&req)
	assert.Equal(t, "", req.Name)
	assert.Equal(t, "Lead", *req.Bio)
	assert.Equal(t, " secret ", req.Password)
	assert.Equal(t, "https://github.com/ada", *req.Links.GitHub)

	de := ToDomainError(ValidateStruct(req))
	require.NotNil(t, de)
	fields := de.Details.([]FieldError)
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].Field)

	req.Name = " A "
	TrimStrings(&req)
	de = ToDomainError(ValidateStruct(req))
	require.NotNil(t, de)
	assert.Equal(t, "Name must be at least 2 characters", de.Details.([]FieldError)[0].Message)
}
