package dtos_test

import (
	"testing"

	"github.com/microgram17/jobtracker/internal/dtos"
	"github.com/microgram17/jobtracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestValidateCreate(t *testing.T) {
	t.Run("valid with optionals", func(t *testing.T) {
		err := dtos.ValidateCreate([]byte(`{"company":"Acme","position":"Engineer","status":"offer",
			"link":null,"notes":"n","applied_date":"2024-01-31","updated_date":null}`))
		assert.NoError(t, err)
	})

	t.Run("missing required fields", func(t *testing.T) {
		err := dtos.ValidateCreate([]byte(`{"company":"Acme"}`))
		assert.ElementsMatch(t, []string{"position", "status"}, fieldNames(t, err))
	})

	t.Run("unknown status", func(t *testing.T) {
		err := dtos.ValidateCreate([]byte(`{"company":"Acme","position":"Engineer","status":"ghosted"}`))
		assert.Equal(t, []string{"status"}, fieldNames(t, err))
	})

	t.Run("unknown field", func(t *testing.T) {
		err := dtos.ValidateCreate([]byte(`{"company":"Acme","position":"Engineer","status":"applied","id":5}`))
		assert.Equal(t, []string{"id"}, fieldNames(t, err))
	})

	t.Run("bad date", func(t *testing.T) {
		err := dtos.ValidateCreate([]byte(`{"company":"Acme","position":"Engineer","status":"applied","applied_date":"yesterday"}`))
		assert.Equal(t, []string{"applied_date"}, fieldNames(t, err))
	})

	t.Run("impossible calendar date", func(t *testing.T) {
		for _, d := range []string{"2024-02-30", "2024-13-45"} {
			err := dtos.ValidateCreate([]byte(`{"company":"Acme","position":"Engineer","status":"applied","applied_date":"` + d + `"}`))
			assert.Equal(t, []string{"applied_date"}, fieldNames(t, err), d)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		err := dtos.ValidateCreate([]byte(`{"company":`))
		var malformed *dtos.ErrMalformedJSON
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestValidateUpdate(t *testing.T) {
	assert.NoError(t, dtos.ValidateUpdate([]byte(`{}`)))
	assert.NoError(t, dtos.ValidateUpdate([]byte(`{"notes":null,"link":"https://acme.com"}`)))

	err := dtos.ValidateUpdate([]byte(`{"company":null}`))
	assert.Equal(t, []string{"company"}, fieldNames(t, err))

	err = dtos.ValidateUpdate([]byte(`{"status":"hired"}`))
	assert.Equal(t, []string{"status"}, fieldNames(t, err))

	err = dtos.ValidateUpdate([]byte(`{"updated_date":"2024-02-30"}`))
	assert.Equal(t, []string{"updated_date"}, fieldNames(t, err))

	assert.NoError(t, dtos.ValidateUpdate([]byte(`{"applied_date":"2024-02-29","updated_date":null}`)))
}

func TestCreateApplicationRequest_ToModel(t *testing.T) {
	notes := "referral"
	applied := models.NewDate(2024, 1, 2)
	req := dtos.CreateApplicationRequest{
		Company:     "Acme",
		Position:    "Engineer",
		Status:      models.StatusApplied,
		Notes:       &notes,
		AppliedDate: &applied,
	}

	m := req.ToModel()

	assert.Equal(t, "Acme", m.Company)
	assert.Equal(t, "Engineer", m.Position)
	assert.Equal(t, models.StatusApplied, m.Status)
	assert.Equal(t, &notes, m.Notes)
	assert.Equal(t, "2024-01-02", m.AppliedDate.String())
	assert.Nil(t, m.Link)
}
